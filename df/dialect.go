package df

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// All code interacting with a database is here

var (
	//go:embed skeletons/clickhouse/create.txt
	chCreate string
	//go:embed skeletons/postgres/create.txt
	pgCreate string

	//go:embed skeletons/clickhouse/types.txt
	chTypes string
	//go:embed skeletons/postgres/types.txt
	pgTypes string

	//go:embed skeletons/clickhouse/fields.txt
	chFields string
	//go:embed skeletons/postgres/fields.txt
	pgFields string

	//go:embed skeletons/clickhouse/dropIf.txt
	chDropIf string
	//go:embed skeletons/postgres/dropIf.txt
	pgDropIf string

	//go:embed skeletons/clickhouse/insert.txt
	chInsert string
	//go:embed skeletons/postgres/insert.txt
	pgInsert string

	//go:embed skeletons/clickhouse/exists.txt
	chExists string
	//go:embed skeletons/postgres/exists.txt
	pgExists string
)

const (
	ch = "clickhouse"
	pg = "postgres"
)

type Dialect struct {
	db      *sql.DB
	dialect string

	dtTypes []string
	dbTypes []string

	create string
	insert string
	dropIf string
	exists string

	fields string

	bufSize int // in MB
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)

	d := &Dialect{db: db, dialect: dialect, bufSize: 1}

	var types string
	switch d.dialect {
	case ch:
		d.create, d.fields, d.dropIf, d.insert, d.exists = chCreate, chFields, chDropIf, chInsert, chExists
		types = chTypes
	case pg:
		d.create, d.fields, d.dropIf, d.insert, d.exists = pgCreate, pgFields, pgDropIf, pgInsert, pgExists
		types = pgTypes
	default:
		return nil, fmt.Errorf("no skeletons for database %s", dialect)
	}

	l := strings.Split(types, "\n")
	for _, lm := range l {
		if strings.Trim(lm, " ") == "" {
			continue
		}

		t := strings.Split(lm, ",")
		if len(t) != 2 {
			return nil, fmt.Errorf("bad type mapping line in NewDialect: %s", lm)
		}

		if DTFromString(t[0]) == DTunknown {
			return nil, fmt.Errorf("unknown data type in NewDialect")
		}

		d.dtTypes = append(d.dtTypes, t[0])
		d.dbTypes = append(d.dbTypes, t[1])
	}

	return d, nil
}

// ***************** Methods *****************

func (d *Dialect) BufSize() int {
	return d.bufSize
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

// Create creates tableName with the given fields. nullable marks fields that may hold NULLs.
// options are in key:value format and are meant to replace placeholders in create.txt
func (d *Dialect) Create(ctx context.Context, tableName, orderBy string, fields []string, types []DataTypes,
	nullable []bool, overwrite bool, options ...string) error {
	var (
		exists bool
		e      error
	)
	if exists, e = d.Exists(ctx, tableName); e != nil {
		return e
	}

	if exists && !overwrite {
		return fmt.Errorf("table %s exists", tableName)
	}

	if orderBy == "" {
		orderBy = d.QuoteName(fields[0])
	}

	create := strings.ReplaceAll(d.create, "?TableName", tableName)
	create = strings.Replace(create, "?OrderBy", orderBy, 1)

	var flds []string
	for ind := 0; ind < len(fields); ind++ {
		var (
			dbType string
			ex     error
		)
		if dbType, ex = d.dbtype(types[ind]); ex != nil {
			return ex
		}

		if d.DialectName() == ch && nullable != nil && nullable[ind] {
			dbType = fmt.Sprintf("Nullable(%s)", dbType)
		}

		field := strings.ReplaceAll(d.fields, "?Field", fields[ind])
		field = strings.ReplaceAll(field, "?Type", dbType)
		flds = append(flds, field)
	}

	create = strings.Replace(create, "?fields", strings.Join(flds, ",\n"), 1)
	for _, opt := range options {
		kv := strings.Split(opt, ":")
		if len(kv) != 2 {
			return fmt.Errorf("invalid option in Dialect.Create: %s", opt)
		}

		create = strings.ReplaceAll(create, kv[0], kv[1])
	}

	if strings.Contains(create, "?") {
		return fmt.Errorf("create still has placeholders: %s", create)
	}

	_, e = d.db.ExecContext(ctx, create)

	return e
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) DropTable(ctx context.Context, tableName string) error {
	qry := strings.ReplaceAll(d.dropIf, "?TableName", tableName)
	_, e := d.DB().ExecContext(ctx, qry)

	return e
}

func (d *Dialect) Exists(ctx context.Context, tableName string) (bool, error) {
	qry := strings.ReplaceAll(d.exists, "?TableName", tableName)

	var exist any
	if e := d.DB().QueryRowContext(ctx, qry).Scan(&exist); e != nil {
		return false, e
	}

	if d.DialectName() == ch {
		if x, ok := ToInt(exist); ok {
			return x.(int) == 1, nil
		}

		return false, fmt.Errorf("unexpected EXISTS result %v", exist)
	}

	return exist != nil, nil
}

func (d *Dialect) InsertValues(ctx context.Context, tableName, fields string, values []byte) error {
	qry := strings.Replace(d.insert, "?TableName", tableName, 1)
	qry = strings.Replace(qry, "?Fields", fields, 1)
	_, e := d.db.ExecContext(ctx, qry+string(values))

	return e
}

// IterSave inserts the rows of df into tableName in batches of at most bufSize MB.
func (d *Dialect) IterSave(ctx context.Context, tableName string, df DF) error {
	const (
		bSep   = byte(',')
		bOpen  = byte('(')
		bClose = byte(')')
	)

	var names []string
	for _, cn := range df.ColumnNames() {
		names = append(names, d.QuoteName(cn))
	}
	fields := strings.Join(names, ",")

	cols := df.Core().Columns()

	var buffer []byte
	bsize := d.bufSize * 1024 * 1024

	for row := 0; row < df.RowCount(); row++ {
		if buffer != nil {
			buffer = append(buffer, bSep)
		}

		buffer = append(buffer, bOpen)
		for ind := 0; ind < len(cols); ind++ {
			buffer = append(append(buffer, []byte(d.ToString(cols[ind].Data().Element(row)))...), bSep)
		}

		buffer[len(buffer)-1] = bClose

		if bsize > 0 && len(buffer) >= bsize {
			if e := d.InsertValues(ctx, tableName, fields, buffer); e != nil {
				return e
			}

			buffer = nil
		}
	}

	if buffer != nil {
		if e := d.InsertValues(ctx, tableName, fields, buffer); e != nil {
			return e
		}
	}

	return nil
}

// Load runs qry and returns its columns. NULLs are missing; integer columns with NULLs are returned as DTfloat.
func (d *Dialect) Load(ctx context.Context, qry string) ([]*Vector, []string, []DataTypes, error) {
	var (
		rows *sql.Rows
		e    error
	)
	if rows, e = d.db.QueryContext(ctx, qry); e != nil {
		return nil, nil, nil, e
	}
	defer func() { _ = rows.Close() }()

	var ct []*sql.ColumnType
	if ct, e = rows.ColumnTypes(); e != nil {
		return nil, nil, nil, e
	}

	var (
		fieldNames []string
		fieldTypes []DataTypes
		memData    []*Vector
		row2read   []any
	)
	for ind := 0; ind < len(ct); ind++ {
		dt := dtFromColumn(ct[ind])
		fieldNames = append(fieldNames, ct[ind].Name())
		fieldTypes = append(fieldTypes, dt)
		memData = append(memData, MakeVector(dt, 0))

		var x any
		row2read = append(row2read, &x)
	}

	for rows.Next() {
		if e4 := rows.Scan(row2read...); e4 != nil {
			return nil, nil, nil, e4
		}

		for ind := 0; ind < len(memData); ind++ {
			if ex := assign(memData[ind], *row2read[ind].(*any)); ex != nil {
				return nil, nil, nil, fmt.Errorf("field %s: %w", fieldNames[ind], ex)
			}
		}
	}

	if e = rows.Err(); e != nil {
		return nil, nil, nil, e
	}

	for c := 0; c < len(memData); c++ {
		switch {
		case fieldTypes[c] == DTdate:
			// change any dates to midnight UTC o.w. comparisons may not work
			utc(memData[c])
		case fieldTypes[c] == DTint && memData[c].HasMissing():
			memData[c] = memData[c].Coerce(DTfloat)
			fieldTypes[c] = DTfloat
		}
	}

	return memData, fieldNames, fieldTypes, nil
}

// QuoteName quotes a column name for SQL. Claims column names contain spaces.
func (d *Dialect) QuoteName(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Save writes df to tableName, replacing it if overwrite is true.
func (d *Dialect) Save(ctx context.Context, tableName, orderBy string, overwrite bool, df DF, options ...string) error {
	var (
		exists bool
		e      error
	)
	if exists, e = d.Exists(ctx, tableName); e != nil {
		return e
	}

	if exists && !overwrite {
		return fmt.Errorf("table %s exists", tableName)
	}

	if exists {
		if ex := d.DropTable(ctx, tableName); ex != nil {
			return ex
		}
	}

	cols := df.ColumnNames()
	if orderBy != "" && !df.HasColumns(strings.Split(orderBy, ",")...) {
		return fmt.Errorf("not all columns present in OrderBy %s", orderBy)
	}

	var quotedOrder []string
	if orderBy != "" {
		for _, ob := range strings.Split(orderBy, ",") {
			quotedOrder = append(quotedOrder, d.QuoteName(ob))
		}
	}

	var dts []DataTypes
	if dts, e = df.ColumnTypes(cols...); e != nil {
		return e
	}

	var nullable []bool
	for c := df.Next(true); c != nil; c = df.Next(false) {
		nullable = append(nullable, c.Data().HasMissing())
	}

	if ex := d.Create(ctx, tableName, strings.Join(quotedOrder, ","), cols, dts, nullable, overwrite, options...); ex != nil {
		return ex
	}

	return d.IterSave(ctx, tableName, df)
}

func (d *Dialect) SetBufSize(mb int) {
	d.bufSize = mb
}

// ToString returns a string version of val that can be placed into SQL
func (d *Dialect) ToString(val any) string {
	if val == nil {
		return "NULL"
	}

	if f, ok := val.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return "NULL"
	}

	var (
		xv any
		ok bool
	)
	if xv, ok = ToString(val); !ok {
		panic(fmt.Errorf("can't make string"))
	}

	x := xv.(string)
	if WhatAmI(val) == DTdate || WhatAmI(val) == DTstring {
		if d.DialectName() == ch {
			x = strings.ReplaceAll(x, `\`, `\\`)
		}

		x = fmt.Sprintf("'%s'", strings.ReplaceAll(x, "'", "''"))
	}

	return x
}

func (d *Dialect) dbtype(dt DataTypes) (string, error) {
	pos := Position(dt.String(), d.dtTypes)
	if pos < 0 {
		return "", fmt.Errorf("cannot find type %s to map to DB type", dt.String())
	}

	return d.dbTypes[pos], nil
}

// dtFromColumn maps a driver column type to a DataTypes, first by scan type then by database type name.
func dtFromColumn(ct *sql.ColumnType) DataTypes {
	if st := ct.ScanType(); st != nil {
		for st.Kind() == reflect.Ptr {
			st = st.Elem()
		}

		switch st.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return DTint
		case reflect.Float32, reflect.Float64:
			return DTfloat
		case reflect.String:
			return DTstring
		}

		if st == reflect.TypeOf(time.Time{}) {
			return DTdate
		}
	}

	name := strings.ToUpper(ct.DatabaseTypeName())
	switch {
	case strings.Contains(name, "DATE"), strings.Contains(name, "TIME"):
		return DTdate
	case strings.Contains(name, "FLOAT"), strings.Contains(name, "DOUBLE"), strings.Contains(name, "REAL"),
		strings.Contains(name, "NUMERIC"), strings.Contains(name, "DECIMAL"):
		return DTfloat
	case strings.Contains(name, "INT"):
		return DTint
	default:
		return DTstring
	}
}

// assign appends val to v. nil is a missing value.
func assign(v *Vector, val any) error {
	switch x := val.(type) {
	case nil:
		return v.Append(nil)
	case []byte:
		return v.Append(string(x))
	case float32:
		return v.Append(float64(x))
	case time.Time:
		return v.Append(x)
	}

	xv := reflect.ValueOf(val)
	if xv.Kind() == reflect.Ptr {
		if xv.IsNil() {
			return v.Append(nil)
		}

		return assign(v, xv.Elem().Interface())
	}

	return v.Append(val)
}

// utc changes the entries of date slices to be midnight UTC
func utc(v *Vector) {
	var (
		col []time.Time
		e   error
	)
	if col, e = v.AsDate(); e != nil {
		panic(e)
	}

	for rx := 0; rx < v.Len(); rx++ {
		col[rx] = time.Date(col[rx].Year(), col[rx].Month(), col[rx].Day(), 0, 0, 0, 0, time.UTC)
	}
}
