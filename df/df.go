package df

import (
	"fmt"
	"strings"
)

// DF is the interface a table implementation satisfies.
type DF interface {
	Core() *DFcore

	AppendColumn(col Column, replace bool) error
	Column(colName string) Column
	ColumnCount() int
	ColumnNames() []string
	ColumnTypes(cols ...string) ([]DataTypes, error)
	DropColumns(colNames ...string) error
	HasColumns(cols ...string) bool
	Next(reset bool) Column
	RowCount() int
	String() string
}

// DFcore is the ordered list of columns -- it is the core structure of a DF that is embedded
// in specific implementations
type DFcore struct {
	head    *columnList
	current *columnList
}

type columnList struct {
	col Column

	prior *columnList
	next  *columnList
}

func NewDFcore(cols ...Column) (df *DFcore, err error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewDFcore")
	}

	var head, priorNode *columnList
	seen := make(map[string]bool)
	for ind := 0; ind < len(cols); ind++ {
		if cols[ind].Len() != cols[0].Len() {
			return nil, fmt.Errorf("length mismatch: %s has %d rows, %s has %d",
				cols[0].Name(), cols[0].Len(), cols[ind].Name(), cols[ind].Len())
		}

		if seen[cols[ind].Name()] {
			return nil, fmt.Errorf("duplicate column name: %s", cols[ind].Name())
		}
		seen[cols[ind].Name()] = true

		node := &columnList{
			col: cols[ind],

			prior: priorNode,
			next:  nil,
		}

		if priorNode != nil {
			priorNode.next = node
		}

		priorNode = node

		if ind == 0 {
			head = node
		}
	}

	return &DFcore{head: head}, nil
}

///////////// DFcore methods

func (df *DFcore) Core() *DFcore {
	return df
}

// Next iterates through the columns. reset starts over at the first column. Returns nil at the end.
func (df *DFcore) Next(reset bool) Column {
	if df.head == nil {
		return nil
	}

	if reset || df.current == nil {
		df.current = df.head
		return df.current.col
	}

	if df.current.next == nil {
		df.current = nil
		return nil
	}

	df.current = df.current.next
	return df.current.col
}

func (df *DFcore) RowCount() int {
	if df.head == nil {
		return 0
	}

	return df.head.col.Len()
}

func (df *DFcore) ColumnCount() int {
	cols := 0
	for c := df.head; c != nil; c = c.next {
		cols++
	}

	return cols
}

func (df *DFcore) ColumnNames() []string {
	var names []string

	for h := df.head; h != nil; h = h.next {
		names = append(names, h.col.Name())
	}

	return names
}

func (df *DFcore) ColumnTypes(cols ...string) ([]DataTypes, error) {
	if cols == nil {
		cols = df.ColumnNames()
	}

	var dts []DataTypes
	for _, cn := range cols {
		var c Column
		if c = df.Column(cn); c == nil {
			return nil, fmt.Errorf("column %s not found", cn)
		}

		dts = append(dts, c.DataType())
	}

	return dts, nil
}

// Column returns the named column, nil if it isn't there.
func (df *DFcore) Column(colName string) Column {
	if node := df.node(colName); node != nil {
		return node.col
	}

	return nil
}

func (df *DFcore) HasColumns(cols ...string) bool {
	for _, cn := range cols {
		if df.node(cn) == nil {
			return false
		}
	}

	return true
}

// AppendColumn adds col at the end of the table. If replace is true, a column of the same name is
// replaced in place.
func (df *DFcore) AppendColumn(col Column, replace bool) error {
	if e := validName(col.Name()); e != nil {
		return e
	}

	if df.head != nil && col.Len() != df.RowCount() {
		return fmt.Errorf("length mismatch: df - %d, append col %s - %d", df.RowCount(), col.Name(), col.Len())
	}

	if node := df.node(col.Name()); node != nil {
		if !replace {
			return fmt.Errorf("duplicate column name: %s", col.Name())
		}

		node.col = col
		return nil
	}

	dfl := &columnList{col: col}

	if df.head == nil {
		df.head = dfl
		return nil
	}

	var tail *columnList
	for tail = df.head; tail.next != nil; tail = tail.next {
	}

	dfl.prior = tail
	tail.next = dfl

	return nil
}

func (df *DFcore) node(colName string) *columnList {
	for h := df.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h
		}
	}

	return nil
}

// DropColumns removes the named columns. Any name not in the table is an error.
func (df *DFcore) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		var node *columnList

		if node = df.node(cName); node == nil {
			return fmt.Errorf("column %s not found", cName)
		}

		if df.current == node {
			df.current = nil
		}

		if node == df.head {
			if df.head.next == nil {
				return fmt.Errorf("no columns left")
			}

			df.head = df.head.next
			df.head.prior = nil
			continue
		}

		node.prior.next = node.next
		if node.next != nil {
			node.next.prior = node.prior
		}
	}

	return nil
}

// Columns returns the columns in order.
func (df *DFcore) Columns() []Column {
	var cols []Column
	for h := df.head; h != nil; h = h.next {
		cols = append(cols, h.col)
	}

	return cols
}

func (df *DFcore) String() string {
	return fmt.Sprintf("rows: %d, columns: %d\n%s", df.RowCount(), df.ColumnCount(),
		strings.Join(df.ColumnNames(), "\n"))
}
