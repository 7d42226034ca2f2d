package reporter

import (
	"bytes"
	"testing"

	"github.com/kirsrus/hosttemp/model"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCycle = model.Cycle{
	ID: "5d3c1c1e-0000-4000-8000-000000000001",
	Observations: []model.Observation{
		{Name: "custom.temperature.temp", Value: 46, Tags: []string{"sensor:coretemp-isa-0000", "component:Core 0"}},
		{Name: "custom.temperature.cpu", Value: 51.5, Tags: []string{"cpu:0"}},
	},
}

func TestWriter(t *testing.T) {
	buf := new(bytes.Buffer)
	reporter, err := NewWriter(buf)
	require.NoError(t, err)

	require.NoError(t, reporter.Report(testCycle))
	assert.Equal(t, "custom.temperature.temp 46 sensor:coretemp-isa-0000,component:Core 0\n"+
		"custom.temperature.cpu 51.5 cpu:0\n", buf.String())

	_, err = NewWriter(nil)
	assert.Error(t, err)
}

func TestLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	reporter, err := NewLog(&ConfigLog{Log: log})
	require.NoError(t, err)
	require.NoError(t, reporter.Report(testCycle))

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "custom.temperature.temp = 46.0", entries[0].Message)
	assert.Equal(t, testCycle.ID, entries[0].Data["cycle"])
	assert.Equal(t, []string{"cpu:0"}, entries[1].Data["tags"])
	assert.Equal(t, logrus.DebugLevel, entries[2].Level)
}
