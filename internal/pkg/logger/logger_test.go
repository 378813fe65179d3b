package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFallsBackToInfo(t *testing.T) {
	log := New(Options{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log = New(Options{Level: "debug", JSON: true})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNew_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(Options{Level: "info", File: path, JSON: true})

	log.WithField("booking_id", 7).Info("booking confirmed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"booking_id":7`)
}
