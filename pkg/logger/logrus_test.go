package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New(Config{
		File:  filepath.Join(t.TempDir(), "hosttemp.log"),
		Level: logrus.DebugLevel,
	})
	require.NotNil(t, log)
	assert.Equal(t, logrus.DebugLevel, log.Level)
}

func TestContextHook(t *testing.T) {
	buf := bytes.Buffer{}
	log := New(Config{Level: logrus.InfoLevel, Console: true})
	log.Out = &buf
	log.Formatter = &logrus.TextFormatter{DisableColors: true}

	log.WithField("module", "test").Info("проверка")

	assert.Contains(t, buf.String(), "source=logrus_test.go:")
	assert.Contains(t, buf.String(), "module=test")
}
