package mem

import (
	"context"
	"fmt"

	d "github.com/invertedv/claimsprep/df"
)

// DF is an in-memory table.
type DF struct {
	*d.DFcore
}

// ***************** DF - Create *****************

func NewDFcol(cols ...*Col) (*DF, error) {
	var cc []d.Column
	for ind := 0; ind < len(cols); ind++ {
		cc = append(cc, cols[ind])
	}

	var (
		core *d.DFcore
		e    error
	)
	if core, e = d.NewDFcore(cc...); e != nil {
		return nil, e
	}

	return &DF{DFcore: core}, nil
}

// FileLoad reads the open file f into a DF.
func FileLoad(f *d.Files) (*DF, error) {
	var (
		vecs []*d.Vector
		e    error
	)
	if vecs, e = f.Read(); e != nil {
		return nil, e
	}

	return fromVectors(f.FieldNames, vecs, f.FileName())
}

// FileLoadName opens, reads and closes fileName using the settings in f.
func FileLoadName(fileName string, f *d.Files) (outDF *DF, err error) {
	if e := f.Open(fileName); e != nil {
		return nil, e
	}

	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return FileLoad(f)
}

// DBLoad runs qry through dialect and returns the result as a DF.
func DBLoad(ctx context.Context, qry string, dialect *d.Dialect) (*DF, error) {
	var (
		vecs  []*d.Vector
		names []string
		e     error
	)
	if vecs, names, _, e = dialect.Load(ctx, qry); e != nil {
		return nil, e
	}

	return fromVectors(names, vecs, qry)
}

func fromVectors(names []string, vecs []*d.Vector, source string) (*DF, error) {
	if len(names) != len(vecs) {
		return nil, fmt.Errorf("have %d names for %d columns", len(names), len(vecs))
	}

	var cols []*Col
	for ind, v := range vecs {
		var (
			col *Col
			e   error
		)
		if col, e = NewCol(v, v.VectorType(), d.ColName(names[ind]), d.ColSource(source)); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewDFcol(cols...)
}

// ***************** DF - Methods *****************

// Col returns the named column as a *Col.
func (f *DF) Col(colName string) (*Col, error) {
	var c d.Column
	if c = f.Column(colName); c == nil {
		return nil, fmt.Errorf("column %s not found", colName)
	}

	col, ok := c.(*Col)
	if !ok {
		return nil, fmt.Errorf("column %s is not an in-memory column", colName)
	}

	return col, nil
}

// Cols returns the columns in order.
func (f *DF) Cols() []*Col {
	var cols []*Col
	for _, c := range f.Columns() {
		cols = append(cols, c.(*Col))
	}

	return cols
}

// Copy is a deep copy.
func (f *DF) Copy() *DF {
	var cols []*Col
	for _, c := range f.Cols() {
		cols = append(cols, c.Copy().(*Col))
	}

	outDF, _ := NewDFcol(cols...)

	return outDF
}

// Shallow returns a new DF holding the same column values. Adding, replacing or dropping columns on
// the result leaves f untouched.
func (f *DF) Shallow() *DF {
	outDF, _ := NewDFcol(f.Cols()...)

	return outDF
}

// Drop returns a DF without the named columns; names not present are ignored.
func (f *DF) Drop(colNames ...string) (*DF, error) {
	var keep []*Col
	for _, c := range f.Cols() {
		if !d.Has(c.Name(), colNames) {
			keep = append(keep, c)
		}
	}

	if keep == nil {
		return nil, fmt.Errorf("no columns left after Drop")
	}

	return NewDFcol(keep...)
}

// With returns a DF with col appended, or replacing the column of the same name.
func (f *DF) With(cols ...*Col) (*DF, error) {
	outDF := f.Shallow()
	for _, col := range cols {
		if e := outDF.AppendColumn(col, true); e != nil {
			return nil, e
		}
	}

	return outDF, nil
}

// Where returns the rows for which keep is true.
func (f *DF) Where(keep []bool) (*DF, error) {
	if len(keep) != f.RowCount() {
		return nil, fmt.Errorf("where has %d rows, df has %d", len(keep), f.RowCount())
	}

	var cols []*Col
	for _, c := range f.Cols() {
		var (
			cx *Col
			e  error
		)
		if cx, e = c.Where(keep); e != nil {
			return nil, e
		}

		cols = append(cols, cx)
	}

	return NewDFcol(cols...)
}

// Take returns the rows at rows, in that order.
func (f *DF) Take(rows []int) (*DF, error) {
	var cols []*Col
	for _, c := range f.Cols() {
		cols = append(cols, c.Take(rows))
	}

	return NewDFcol(cols...)
}

// Shape returns the row and column counts.
func (f *DF) Shape() (rows, cols int) {
	return f.RowCount(), f.ColumnCount()
}

// FileSave writes the DF to fileName using the settings in files. FieldNames are taken from the DF.
func (f *DF) FileSave(fileName string, files *d.Files) (err error) {
	files.FieldNames = f.ColumnNames()
	if e := files.Create(fileName); e != nil {
		return e
	}

	defer func() {
		if e := files.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if e := files.WriteHeader(); e != nil {
		return e
	}

	cols := f.Cols()
	for row := 0; row < f.RowCount(); row++ {
		line := make([]any, len(cols))
		for ind, c := range cols {
			line[ind] = c.Element(row)
		}

		if e := files.WriteLine(line); e != nil {
			return e
		}
	}

	return nil
}

func (f *DF) String() string {
	header := []string{"column", "type", "missing"}
	var names, types []string
	var missing []int
	for _, c := range f.Cols() {
		names = append(names, c.Name())
		types = append(types, c.DataType().String())
		missing = append(missing, c.MissingCount())
	}

	miss, _ := d.NewVector(missing, d.DTint)

	return fmt.Sprintf("rows: %d\n", f.RowCount()) + prettyPrint(header, stringVec(names), stringVec(types), miss)
}

// Table prints the first n rows; n < 0 prints all of them.
func (f *DF) Table(n int) string {
	if n < 0 || n > f.RowCount() {
		n = f.RowCount()
	}

	rows := make([]int, n)
	for ind := range rows {
		rows[ind] = ind
	}

	var (
		header []string
		vecs   []*d.Vector
	)
	for _, c := range f.Cols() {
		header = append(header, c.Name())
		vecs = append(vecs, c.Vector.Take(rows))
	}

	return prettyPrint(header, vecs...)
}

// MissingColumns lists the columns that have at least one missing value.
func (f *DF) MissingColumns() []string {
	var out []string
	for _, c := range f.Cols() {
		if c.HasMissing() {
			out = append(out, c.Name())
		}
	}

	return out
}
