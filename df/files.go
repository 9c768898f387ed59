package df

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// All code interacting with files is here

const (
	Sep         = ','
	StringDelim = '"'
	DateFormat  = "2006-01-02"
	Header      = true
)

// Files reads and writes delimited text files.
//
// On read, FieldTypes may be left empty in which case each column's type is inferred:
//   - every non-missing value is an integer: DTint (DTfloat if the column has missing values)
//   - every non-missing value is a number: DTfloat
//   - no non-missing values at all: DTfloat
//   - otherwise: DTstring
//
// Dates are not inferred; they stay strings until a caller converts them.
type Files struct {
	FieldNames  []string
	FieldTypes  []DataTypes
	Sep         rune
	DateFormat  string
	FloatFormat string
	Header      bool

	file     *os.File
	fileName string
	wrtr     *csv.Writer
}

type FileOpt func(f *Files) error

func NewFiles(opts ...FileOpt) (*Files, error) {
	f := &Files{
		Sep:        Sep,
		DateFormat: DateFormat,
		Header:     Header,
	}

	for _, opt := range opts {
		if e := opt(f); e != nil {
			return nil, e
		}
	}

	return f, nil
}

// *********** Setters ***********

func FileSep(sep rune) FileOpt {
	return func(f *Files) error {
		if sep == StringDelim || sep == '\n' || sep == '\r' {
			return fmt.Errorf("invalid separator %q", sep)
		}

		f.Sep = sep
		return nil
	}
}

func FileHeader(header bool) FileOpt {
	return func(f *Files) error {
		f.Header = header
		return nil
	}
}

func FileFieldNames(names []string) FileOpt {
	return func(f *Files) error {
		for _, nm := range names {
			if e := validName(nm); e != nil {
				return e
			}
		}

		f.FieldNames = names
		return nil
	}
}

func FileFieldTypes(dts []DataTypes) FileOpt {
	return func(f *Files) error {
		f.FieldTypes = dts
		return nil
	}
}

// FileFloatFormat sets a fmt verb for floats on write. The default writes the shortest exact representation.
func FileFloatFormat(format string) FileOpt {
	return func(f *Files) error {
		if !strings.HasPrefix(format, "%") {
			return fmt.Errorf("float format must be a fmt verb, got %s", format)
		}

		f.FloatFormat = format
		return nil
	}
}

// *********** Methods ***********

func (f *Files) Open(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Open(fileName)

	return e
}

func (f *Files) Create(fileName string) error {
	var e error
	f.fileName = fileName
	if f.file, e = os.Create(fileName); e != nil {
		return e
	}

	f.wrtr = csv.NewWriter(f.file)
	f.wrtr.Comma = f.Sep

	return nil
}

func (f *Files) FileName() string {
	return f.fileName
}

func (f *Files) Close() error {
	if f.file == nil {
		return fmt.Errorf("no open files")
	}

	if f.wrtr != nil {
		f.wrtr.Flush()
		if e := f.wrtr.Error(); e != nil {
			_ = f.file.Close()
			return e
		}
	}

	e := f.file.Close()
	f.file, f.wrtr = nil, nil

	return e
}

// Read reads the open file to the end and returns one Vector per field.
func (f *Files) Read() ([]*Vector, error) {
	if f.file == nil {
		return nil, fmt.Errorf("no open file in Files.Read")
	}

	return f.ReadFrom(f.file)
}

// ReadFrom reads delimited data from rdr. If Header is true the first record supplies FieldNames
// (unless they are already set).
func (f *Files) ReadFrom(rdr io.Reader) ([]*Vector, error) {
	r := csv.NewReader(rdr)
	r.Comma = f.Sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		records [][]string
		e       error
	)
	if records, e = r.ReadAll(); e != nil {
		return nil, fmt.Errorf("reading %s: %w", f.fileName, e)
	}

	if f.Header {
		if len(records) == 0 {
			return nil, fmt.Errorf("no header in %s", f.fileName)
		}

		header := records[0]
		records = records[1:]
		if f.FieldNames == nil {
			for ind := range header {
				header[ind] = strings.TrimSpace(strings.TrimPrefix(header[ind], "\ufeff"))
			}

			if ex := FileFieldNames(header)(f); ex != nil {
				return nil, ex
			}
		}
	}

	if f.FieldNames == nil {
		return nil, fmt.Errorf("field names not set in *Files")
	}

	nCols := len(f.FieldNames)
	cols := make([][]string, nCols)
	for row, rec := range records {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" && nCols > 1 {
			continue
		}

		if len(rec) > nCols {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", row+1, len(rec), nCols)
		}

		for c := 0; c < nCols; c++ {
			val := ""
			if c < len(rec) {
				val = rec[c]
			}

			cols[c] = append(cols[c], val)
		}
	}

	if f.FieldTypes != nil && len(f.FieldTypes) != nCols {
		return nil, fmt.Errorf("have %d field types for %d fields", len(f.FieldTypes), nCols)
	}

	var vecs []*Vector
	for c := 0; c < nCols; c++ {
		dt := DTunknown
		if f.FieldTypes != nil {
			dt = f.FieldTypes[c]
		}

		vecs = append(vecs, parseField(cols[c], dt))
	}

	return vecs, nil
}

// parseField converts the raw strings to a Vector of type dt, inferring the type if dt is DTunknown.
// Values that are missing tokens or do not convert are missing.
func parseField(raw []string, dt DataTypes) *Vector {
	if dt == DTunknown {
		dt = inferType(raw)
	}

	v := MakeVector(dt, len(raw))
	for ind, s := range raw {
		if IsMissingToken(s) {
			v.SetMissing(ind)
			continue
		}

		var (
			x  any
			ok bool
		)
		if dt == DTstring {
			x, ok = s, true
		} else {
			x, ok = ToDataType(s, dt)
		}

		if !ok {
			v.SetMissing(ind)
			continue
		}

		_ = v.SetAny(x, ind)
	}

	return v
}

func inferType(raw []string) DataTypes {
	allInt, allFloat, anyMissing, anyValue := true, true, false, false
	for _, s := range raw {
		if IsMissingToken(s) {
			anyMissing = true
			continue
		}

		anyValue = true
		if _, ok := ToInt(s); !ok {
			allInt = false
		}

		if _, ok := ToFloat(s); !ok {
			allFloat = false
			break
		}
	}

	switch {
	case !anyValue:
		return DTfloat
	case allInt && !anyMissing:
		return DTint
	case allFloat:
		return DTfloat
	default:
		return DTstring
	}
}

func (f *Files) WriteHeader() error {
	if !f.Header {
		return nil
	}

	if f.FieldNames == nil {
		return fmt.Errorf("field names not set in *Files")
	}

	return f.wrtr.Write(f.FieldNames)
}

// WriteLine writes one record. nil values are written as empty fields.
func (f *Files) WriteLine(v []any) error {
	if f.wrtr == nil {
		return fmt.Errorf("no file created in Files.WriteLine")
	}

	line := make([]string, len(v))
	for ind := 0; ind < len(v); ind++ {
		switch d := v[ind].(type) {
		case nil:
			line[ind] = ""
		case float64:
			line[ind] = strconv.FormatFloat(d, 'f', -1, 64)
			if f.FloatFormat != "" {
				line[ind] = fmt.Sprintf(f.FloatFormat, d)
			}
		case int:
			line[ind] = strconv.Itoa(d)
		case time.Time:
			line[ind] = d.Format(f.DateFormat)
		case string:
			line[ind] = d
		default:
			return fmt.Errorf("unsupported type %T in Files.WriteLine", d)
		}
	}

	return f.wrtr.Write(line)
}
