package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_Trims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nutrilog.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	chunk := bytes.Repeat([]byte("a"), 1024*1024)
	for range 6 {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	_, err = w.Write([]byte("last line\n"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, keepLogSizeBytes, info.Size())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("last line\n")))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}
