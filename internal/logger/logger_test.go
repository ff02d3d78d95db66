package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSetsLevelAndFormatter(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: OutputStdout}))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init(Config{Level: "loud"}))
}

func TestInitFileOutputNeedsPath(t *testing.T) {
	assert.Error(t, Init(Config{Level: "info", Output: OutputFile}))
}

func TestInitWritesToRotatingFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(Config{Level: "info", Output: OutputFile, FilePath: path, MaxSizeMB: 1}))

	logrus.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
