package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
	"github.com/stretchr/testify/require"
)

const claimsCSV = `Claim ID,Annual Leave Reliability,Long Service Leave Reliability,Wages Reliability,IP Commencement Date,IP Termination Date,IP Weekly Wage,Industry,CM Recommended Wages,Claimant Age,Days Between IP Verified Data Request and Received Date,Employer Size
1,0.9,1.0,-0.3,2015-01-01,2020-01-01,1000,Mining,500,40,10,Large
2,1.2,0.5,0.97,2020-01-01,2019-01-01,3000,Retail,600,35,5,
3,NA,0.8,0.5,2019-01-01,2020-01-01,800,Health,,50,20,Small
4,0.99,0.96,1.0,not a date,2021-06-01,,Mining,400,28,-4,Small
5,0.5,0.7,0.8,2010-01-01,2020-01-01,900,Health,300,60,30,Large
6,0.4,0.2,0.93,2012-03-01,,700,,350,33,40,
`

const refCSV = `Industry,ABS_Average_Weekly_Wage
Mining,1500
Health,1000
Finance,1200
`

func loadCSV(t *testing.T, name, body string) *m.DF {
	fileName := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(fileName, []byte(body), 0o600))

	f, e := d.NewFiles()
	require.Nil(t, e)

	df, e := m.FileLoadName(fileName, f)
	require.Nil(t, e)

	return df
}

func claims(t *testing.T) *m.DF {
	return loadCSV(t, "claims.csv", claimsCSV)
}

func reference(t *testing.T) *m.DF {
	return loadCSV(t, "ref.csv", refCSV)
}

func newDF(t *testing.T, cols ...*m.Col) *m.DF {
	df, e := m.NewDFcol(cols...)
	require.Nil(t, e)

	return df
}

func newCol(t *testing.T, name string, data any, dt d.DataTypes) *m.Col {
	col, e := m.NewCol(data, dt, d.ColName(name))
	require.Nil(t, e)

	return col
}

func floats(t *testing.T, df *m.DF, colName string) []float64 {
	col, e := df.Col(colName)
	require.Nil(t, e)

	x, e := col.Floats()
	require.Nil(t, e)

	return x
}
