package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"testing"

	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "1.50", fmtFloat(1.5))
	assert.Equal(t, "0.33", fmtFloat(1.0/3.0))
	assert.Equal(t, "%d", intFmt)

	fmtFloat, _ = createFormatters(4)
	assert.Equal(t, "0.8750", fmtFloat(0.875))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]int{"n": 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"n": 3`)
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "2"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestGetMaxSMILESWidth(t *testing.T) {
	// Width override pins the terminal width
	cfg := &contract.Config{Width: 200}
	assert.Equal(t, 70, getMaxSMILESWidth(cfg))

	cfg = &contract.Config{Width: 50}
	assert.Equal(t, 15, getMaxSMILESWidth(cfg))

	cfg = &contract.Config{Width: 100}
	assert.Equal(t, 55, getMaxSMILESWidth(cfg))
}

func TestWriteWithFileStdout(t *testing.T) {
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		return nil
	}, "Wrote")
	require.NoError(t, err)
	assert.True(t, called)
}
