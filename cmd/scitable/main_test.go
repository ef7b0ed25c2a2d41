package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitable/pkg/errors"
)

const sampleCSV = "a,b,c\n1,,3\n4,5,6\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTableCommands(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"select", []string{"select", data, "-c", "c,a"}, "c,a\n3,1\n6,4\n"},
		{"drop by position", []string{"drop", data, "-c", "1"}, "a,c\n1,3\n4,6\n"},
		{"countna", []string{"countna", data}, "column name : null count\n--------------------------\na : 0\nb : 1\nc : 0\n"},
		{"dropna", []string{"dropna", data}, "a,b,c\n4,5,6\n"},
		{"fillna", []string{"fillna", data, "--value", "NA"}, "a,b,c\n1,NA,3\n4,5,6\n"},
		{"transpose", []string{"transpose", data}, "col0,col1\n1,4\n,5\n3,6\n"},
		{"rename", []string{"rename", data, "a=x", "b=a"}, "x,a,c\n1,,3\n4,5,6\n"},
		{"replace", []string{"replace", data, "--old", "4", "--new", "9"}, "a,b,c\n1,,3\n9,5,6\n"},
		{"append rows", []string{"append", data, data}, "a,b,c\n1,,3\n4,5,6\n1,,3\n4,5,6\n"},
		{"no header", []string{"select", data, "--no-header", "-c", "0"}, "a\n1\n4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeparatorFlag(t *testing.T) {
	data := writeFile(t, "data.tsv", "a;b\n1;2\n")

	got, err := run("select", data, "--sep", ";", "-c", "b,a")
	require.NoError(t, err)
	assert.Equal(t, "b;a\n2;1\n", got)
}

func TestOutputFile(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.csv")

	got, err := run("dropna", data, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, got)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n4,5,6", string(written))
}

func TestSplitAndSample(t *testing.T) {
	data := writeFile(t, "data.csv", "x\n1\n2\n3\n4\n")
	dir := t.TempDir()
	train, test := filepath.Join(dir, "train.csv"), filepath.Join(dir, "test.csv")

	got, err := run("split", data, "--seed", "3", "--ratio", "0.5", "--train", train, "--test", test)
	require.NoError(t, err)
	assert.Equal(t, "train: 2 rows, test: 2 rows\n", got)
	assert.FileExists(t, train)
	assert.FileExists(t, test)

	first, err := run("sample", data, "--seed", "9", "-n", "3")
	require.NoError(t, err)
	second, err := run("sample", data, "--seed", "9", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHeadAndDescribe(t *testing.T) {
	data := writeFile(t, "nums.csv", "x,y\n1,2\n3,4\n5,6\n")

	got, err := run("head", data, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, got, "x")
	assert.Contains(t, got, "1")
	assert.NotContains(t, got, "5")

	got, err = run("describe", data)
	require.NoError(t, err)
	assert.Contains(t, got, "Mean")
	assert.Contains(t, got, "3.000000")
}

func TestScale(t *testing.T) {
	data := writeFile(t, "nums.csv", "x,y\n1,2\n3,4\n5,6\n")

	got, err := run("scale", data, "--method", "minmax")
	require.NoError(t, err)
	assert.Equal(t, "x,y\n0,0\n0.5,0.5\n1,1\n", got)

	_, err = run("scale", data, "--method", "log")
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)
}

func TestHist(t *testing.T) {
	data := writeFile(t, "nums.csv", "x,y\n1,2\n3,4\n5,6\n")
	out := filepath.Join(t.TempDir(), "y.png")

	_, err := run("hist", data, "-c", "y", "--bins", "2", "-o", out)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scitable.yaml")

	got, err := run("config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, got, path)

	_, err = run("config", "init", path)
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)

	_, err = run("config", "init", "--force", path)
	require.NoError(t, err)

	// 生成した設定ファイルを読み込める
	data := writeFile(t, "data.csv", sampleCSV)
	_, err = run("select", data, "--config", path, "-c", "a")
	require.NoError(t, err)
}

func TestCommandErrors(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)

	_, err := run("select", data, "-c", "missing")
	var cerr *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &cerr), "got %v", err)

	_, err = run("append", data, data, "--axis", "diagonal")
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)

	_, err = run("rename", data, "nonsense")
	assert.True(t, errors.As(err, &verr), "got %v", err)

	_, err = run("select", data, "--log-level", "loud", "-c", "a")
	assert.True(t, errors.As(err, &verr), "got %v", err)

	_, err = run("head", filepath.Join(t.TempDir(), "missing.csv"))
	var serr *errors.SourceError
	assert.True(t, errors.As(err, &serr), "got %v", err)
}

func TestVersion(t *testing.T) {
	got, err := run("version")
	require.NoError(t, err)
	assert.Contains(t, got, "scitable v"+version)
}
