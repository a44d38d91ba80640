package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"import-buddy/internal/logging"
)

func TestNew_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := logging.New(logging.Options{Console: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Warn("shown")
	require.NoError(t, cleanup())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := logging.New(logging.Options{Console: &buf, Verbose: true})
	require.NoError(t, err)

	logger.Debug("statement executed")
	require.NoError(t, cleanup())
	assert.Contains(t, buf.String(), "statement executed")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")
	logger, cleanup, err := logging.New(logging.Options{Console: &bytes.Buffer{}, File: path})
	require.NoError(t, err)

	logger.Debug("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}
