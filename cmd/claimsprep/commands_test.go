package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claimsCSV = `Claim ID,Annual Leave Reliability,Long Service Leave Reliability,Wages Reliability,IP Commencement Date,IP Termination Date,IP Weekly Wage,Industry,Days Between IP Verified Data Request and Received Date
1,0.9,1.0,-0.3,2015-01-01,2020-01-01,1000,Mining,10
2,1.2,0.5,0.97,2020-01-01,2019-01-01,3000,Retail,5
3,0.4,0.8,0.5,2019-01-01,2020-01-01,800,Health,20
4,0.99,0.96,1.0,2018-01-01,2021-06-01,,,30
`

const refCSV = `Industry,ABS_Average_Weekly_Wage
Mining,1500
Health,1000
`

func writeFile(t *testing.T, dir, name, body string) string {
	fileName := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(fileName, []byte(body), 0o600))

	return fileName
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	e := rootCmd.Execute()

	return out.String(), e
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	claims := writeFile(t, dir, "claims.csv", claimsCSV)
	ref := writeFile(t, dir, "ref.csv", refCSV)
	cleaned := filepath.Join(dir, "cleaned.csv")
	labeled := filepath.Join(dir, "labeled.csv")

	header := func(fileName string) []string {
		body, e := os.ReadFile(fileName)
		require.Nil(t, e)
		return strings.Split(strings.SplitN(string(body), "\n", 2)[0], ",")
	}

	out, e := execute(t, "clean", "--main", claims, "--ref", ref, "--out", cleaned)
	require.Nil(t, e)
	assert.True(t, strings.Contains(out, "industries without benchmark: [Retail]"))

	h := header(cleaned)
	assert.Contains(t, h, "IP_Tenure_Years")
	assert.Contains(t, h, "Industry_missing")
	assert.NotContains(t, h, "Unreliable")
	assert.NotContains(t, h, "Claim ID")

	_, e = execute(t, "clean", "--main", claims, "--ref", ref, "--out", labeled, "--label")
	require.Nil(t, e)
	assert.Contains(t, header(labeled), "Unreliable")

	out, e = execute(t, "verify", "--in", cleaned)
	require.Nil(t, e)
	assert.True(t, strings.Contains(out, "4 rows"))

	// the raw claims still carry leakage columns
	_, e = execute(t, "verify", "--in", claims)
	assert.NotNil(t, e)

	out, e = execute(t, "describe", "--in", ref)
	require.Nil(t, e)
	assert.True(t, strings.Contains(out, "ABS_Average_Weekly_Wage"))
	assert.True(t, strings.Contains(out, "1250"))

	_, e = execute(t, "describe", "--in", ref, "--cols", "Industry")
	assert.NotNil(t, e)
}

func TestLoadDBEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "CLAIMS_HOST=filehost\nCLAIMS_USER=claims\n")

	t.Setenv("CLAIMS_DIALECT", "postgres")
	t.Setenv("CLAIMS_HOST", "")
	t.Setenv("CLAIMS_PORT", "")
	t.Setenv("CLAIMS_USER", "")
	for _, key := range []string{"CLAIMS_HOST", "CLAIMS_PORT", "CLAIMS_USER"} {
		require.Nil(t, os.Unsetenv(key))
	}

	env, e := loadDBEnv(envFile)
	require.Nil(t, e)
	assert.Equal(t, "filehost", env.Host)
	assert.Equal(t, "claims", env.User)
	assert.Equal(t, 5432, env.Port)
	assert.Equal(t, "postgres", env.Dialect)

	t.Setenv("CLAIMS_HOST", "envhost")
	t.Setenv("CLAIMS_PORT", "x")
	_, e = loadDBEnv(filepath.Join(dir, "none"))
	assert.NotNil(t, e)

	t.Setenv("CLAIMS_PORT", "15432")
	env, e = loadDBEnv(envFile)
	require.Nil(t, e)
	assert.Equal(t, "envhost", env.Host)
	assert.Equal(t, 15432, env.Port)
}

func TestNewLogger(t *testing.T) {
	l, e := newLogger("debug", true)
	require.Nil(t, e)
	assert.NotNil(t, l)

	_, e = newLogger("loud", false)
	assert.NotNil(t, e)
}
