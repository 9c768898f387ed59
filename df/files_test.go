package df

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claimsCSV = "\ufeffid,wage,name,score,empty\n" +
	"1,100,\"Smith, J\",0.5,\n" +
	"2,,Jones,NA,\n" +
	"3,250,,85%,\n"

func TestFilesReadFrom(t *testing.T) {
	f, e := NewFiles()
	require.Nil(t, e)

	vecs, e := f.ReadFrom(strings.NewReader(claimsCSV))
	require.Nil(t, e)
	assert.Equal(t, []string{"id", "wage", "name", "score", "empty"}, f.FieldNames)
	require.Len(t, vecs, 5)

	// all ints
	assert.Equal(t, DTint, vecs[0].VectorType())
	// ints with a gap are float
	assert.Equal(t, DTfloat, vecs[1].VectorType())
	assert.True(t, vecs[1].IsMissing(1))
	assert.Equal(t, 250.0, vecs[1].Element(2))

	assert.Equal(t, DTstring, vecs[2].VectorType())
	assert.Equal(t, "Smith, J", vecs[2].Element(0))
	assert.True(t, vecs[2].IsMissing(2))

	// a percent string makes the column a string column
	assert.Equal(t, DTstring, vecs[3].VectorType())
	assert.True(t, vecs[3].IsMissing(1))

	assert.Equal(t, DTfloat, vecs[4].VectorType())
	assert.Equal(t, 3, vecs[4].MissingCount())
}

func TestFilesFieldTypes(t *testing.T) {
	f, e := NewFiles(FileFieldTypes([]DataTypes{DTint, DTint, DTstring, DTfloat, DTstring}))
	require.Nil(t, e)

	vecs, e := f.ReadFrom(strings.NewReader(claimsCSV))
	require.Nil(t, e)
	assert.Equal(t, DTint, vecs[1].VectorType())
	assert.True(t, vecs[1].IsMissing(1))
	// "85%" does not convert to float
	assert.True(t, vecs[3].IsMissing(2))

	f, _ = NewFiles(FileFieldTypes([]DataTypes{DTint}))
	_, e = f.ReadFrom(strings.NewReader(claimsCSV))
	assert.NotNil(t, e)
}

func TestFilesNoHeader(t *testing.T) {
	f, e := NewFiles(FileHeader(false), FileSep('|'), FileFieldNames([]string{"a", "b"}))
	require.Nil(t, e)

	vecs, e := f.ReadFrom(strings.NewReader("1|x\n2\n"))
	require.Nil(t, e)
	assert.Equal(t, 2, vecs[0].Len())
	assert.True(t, vecs[1].IsMissing(1))

	_, e = NewFiles(FileSep('"'))
	assert.NotNil(t, e)

	_, e = NewFiles(FileFieldNames([]string{"a\tb"}))
	assert.NotNil(t, e)
}

func TestFilesWriteRead(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "out.csv")

	f, e := NewFiles(FileFieldNames([]string{"x", "d", "s"}))
	require.Nil(t, e)
	require.Nil(t, f.Create(fileName))
	require.Nil(t, f.WriteHeader())
	require.Nil(t, f.WriteLine([]any{1.5, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "a,b"}))
	require.Nil(t, f.WriteLine([]any{nil, nil, "c"}))
	require.Nil(t, f.Close())

	b, e := os.ReadFile(fileName)
	require.Nil(t, e)
	assert.Equal(t, "x,d,s\n1.5,2020-01-01,\"a,b\"\n,,c\n", string(b))

	g, _ := NewFiles()
	require.Nil(t, g.Open(fileName))
	vecs, e := g.Read()
	require.Nil(t, e)
	require.Nil(t, g.Close())
	assert.Equal(t, DTfloat, vecs[0].VectorType())
	assert.True(t, vecs[0].IsMissing(1))
	assert.Equal(t, "a,b", vecs[2].Element(0))
}

func TestReadQuotedHeader(t *testing.T) {
	const body = "\"Wage, gross\",\"Employer \"\"Size\"\"\"\n1000,Large\n"

	f, e := NewFiles()
	require.Nil(t, e)

	vecs, e := f.ReadFrom(strings.NewReader(body))
	require.Nil(t, e)
	assert.Equal(t, []string{"Wage, gross", `Employer "Size"`}, f.FieldNames)
	assert.Equal(t, 1000, vecs[0].Element(0))

	assert.NotNil(t, validName("two\nlines"))
	assert.NotNil(t, validName(" "))
}
