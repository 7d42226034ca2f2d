package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "hosttemp.log", cfg.Log.Filename)
	assert.Equal(t, "warning", cfg.Log.Level)
	assert.Equal(t, "custom", cfg.Metric.Namespace)
	assert.Equal(t, []string{"sensors"}, cfg.Sensors.Command)
	assert.Equal(t, []string{"sudo", "smartctl", "--json", "-A"}, cfg.Drives.Command)
	assert.Equal(t, "^sd[a-z]$", cfg.Drives.Pattern)
	assert.Equal(t, "/dev", cfg.Drives.DevDir)
	assert.Equal(t, uint(30), cfg.Drives.Timeout)
	assert.Equal(t, []string{"0", "1"}, cfg.Thermal.Zones)
	assert.Equal(t, uint(60), cfg.Check.Interval)
	assert.Equal(t, uint(9101), cfg.Http.Port)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
metric:
  namespace: host
drives:
  pattern: "^(sd[a-z]|nvme[0-9]n1)$"
  command: ["smartctl", "--json", "-a"]
thermal:
  zones: []
check:
  interval: 15
`
	require.NoError(t, ioutil.WriteFile(file, []byte(content), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "host", cfg.Metric.Namespace)
	assert.Equal(t, "^(sd[a-z]|nvme[0-9]n1)$", cfg.Drives.Pattern)
	assert.Equal(t, []string{"smartctl", "--json", "-a"}, cfg.Drives.Command)
	assert.Equal(t, uint(15), cfg.Check.Interval)
	assert.Equal(t, []string{"sensors"}, cfg.Sensors.Command)
}
