package assembler

import (
	"context"
	"testing"
	"time"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/tool"

	"github.com/juju/errors"
	"github.com/k0kubun/pp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSensors struct {
	report string
	err    error
	delay  time.Duration
}

func (m fakeSensors) Report(context.Context) (string, error) {
	time.Sleep(m.delay)
	return m.report, m.err
}

type fakeThermal struct {
	zones  []string
	values map[string]float64
	delay  time.Duration
}

func (m fakeThermal) Zones() ([]string, error) {
	time.Sleep(m.delay)
	return m.zones, nil
}

func (m fakeThermal) Read(zone string) (float64, error) {
	v, ok := m.values[zone]
	if !ok {
		return 0, errors.NotFoundf("зона %s", zone)
	}
	return v, nil
}

type fakeProbe struct {
	drives map[string]model.DriveTemperature
	delay  time.Duration
}

func (m fakeProbe) ProbeAllDrives(context.Context) map[string]model.DriveTemperature {
	time.Sleep(m.delay)
	return m.drives
}

const testReport = `nvme-pci-0300
Adapter: PCI adapter
Composite:    +36.9°C  (low  = -273.1°C, high = +81.8°C)
                       (crit = +84.8°C)

coretemp-isa-0000
Adapter: ISA adapter
Core 0:        +46.0°C  (high = +101.0°C, crit = +115.0°C)
`

func TestCollect(t *testing.T) {
	assembler, err := NewAssembler(
		fakeSensors{report: testReport},
		fakeThermal{zones: []string{"0", "1", "2"}, values: map[string]float64{"0": 45000, "2": 51500}},
		fakeProbe{drives: map[string]model.DriveTemperature{
			"sdb": {Device: "sdb", Current: tool.Float(33)},
			"sda": {Device: "sda", Current: tool.Float(36), Crit: tool.Float(70)},
		}},
		&ConfigAssembler{},
	)
	require.NoError(t, err)

	got, err := assembler.Collect(context.Background())
	require.NoError(t, err)
	t.Log(pp.Sprint(got))

	coreTags := []string{"sensor:coretemp-isa-0000", "component:Core 0"}
	nvmeTags := []string{"sensor:nvme-pci-0300", "component:Composite"}
	driveTags := []string{"drive:nvme-pci-0300", "component:Composite"}
	want := []model.Observation{
		{Name: "custom.temperature.temp", Value: 46.0, Tags: coreTags},
		{Name: "custom.temperature.high", Value: 101.0, Tags: coreTags},
		{Name: "custom.temperature.crit", Value: 115.0, Tags: coreTags},
		{Name: "custom.temperature.temp", Value: 36.9, Tags: nvmeTags},
		{Name: "custom.temperature.low", Value: -273.1, Tags: nvmeTags},
		{Name: "custom.temperature.high", Value: 81.8, Tags: nvmeTags},
		{Name: "custom.temperature.crit", Value: 84.8, Tags: nvmeTags},
		{Name: "custom.temperature.nvme.current", Value: 36.9, Tags: driveTags},
		{Name: "custom.temperature.nvme.low", Value: -273.1, Tags: driveTags},
		{Name: "custom.temperature.nvme.high", Value: 81.8, Tags: driveTags},
		{Name: "custom.temperature.nvme.crit", Value: 84.8, Tags: driveTags},
		{Name: "custom.temperature.cpu", Value: 45.0, Tags: []string{"cpu:0"}},
		{Name: "custom.temperature.cpu", Value: 51.5, Tags: []string{"cpu:2"}},
		{Name: "custom.temperature.hdd.current", Value: 36, Tags: []string{"drive:sda"}},
		{Name: "custom.temperature.hdd.crit", Value: 70, Tags: []string{"drive:sda"}},
		{Name: "custom.temperature.hdd.current", Value: 33, Tags: []string{"drive:sdb"}},
	}
	assert.Equal(t, want, got)
}

func TestCollectSensorsUnavailable(t *testing.T) {
	assembler, err := NewAssembler(
		fakeSensors{err: model.NewCommandError(model.KindCommandUnavailable, "sensors", errors.New("executable file not found"))},
		fakeThermal{zones: []string{"0"}, values: map[string]float64{"0": 40000}},
		fakeProbe{drives: map[string]model.DriveTemperature{"sda": {Device: "sda", Crit: tool.Float(60)}}},
		&ConfigAssembler{Namespace: "host"},
	)
	require.NoError(t, err)

	got, err := assembler.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Observation{
		{Name: "host.temperature.cpu", Value: 40.0, Tags: []string{"cpu:0"}},
		{Name: "host.temperature.hdd.crit", Value: 60, Tags: []string{"drive:sda"}},
	}, got)
}

func TestCollectNoSources(t *testing.T) {
	assembler, err := NewAssembler(nil, nil, nil, &ConfigAssembler{})
	require.NoError(t, err)

	got, err := assembler.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollectConcurrent(t *testing.T) {
	const delay = 300 * time.Millisecond
	assembler, err := NewAssembler(
		fakeSensors{report: testReport, delay: delay},
		fakeThermal{zones: []string{"0"}, values: map[string]float64{"0": 40000}, delay: delay},
		fakeProbe{delay: delay},
		&ConfigAssembler{},
	)
	require.NoError(t, err)

	start := time.Now()
	_, err = assembler.Collect(context.Background())
	require.NoError(t, err)
	assert.Less(t, int64(time.Since(start)), int64(2*delay), "источники опрашиваются параллельно")
}

func TestCollectCanceled(t *testing.T) {
	assembler, err := NewAssembler(fakeSensors{report: testReport}, nil, nil, &ConfigAssembler{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = assembler.Collect(ctx)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestNewAssemblerNamespace(t *testing.T) {
	_, err := NewAssembler(nil, nil, nil, &ConfigAssembler{Namespace: "bad namespace"})
	assert.Error(t, err)
	_, err = NewAssembler(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestSensorObservationsThresholdsOptional(t *testing.T) {
	report := model.Sensors{
		"acpitz-acpi-0": {{SensorGroup: "acpitz-acpi-0", Component: "temp1", Temperature: 27.8, Crit: tool.Float(105)}},
		"empty":         {},
	}
	got := SensorObservations("custom", report)
	tags := []string{"sensor:acpitz-acpi-0", "component:temp1"}
	assert.Equal(t, []model.Observation{
		{Name: "custom.temperature.temp", Value: 27.8, Tags: tags},
		{Name: "custom.temperature.crit", Value: 105, Tags: tags},
	}, got)
}

func TestDriveObservationsEmpty(t *testing.T) {
	assert.Empty(t, DriveObservations("custom", nil))
	assert.Empty(t, DriveObservations("custom", map[string]model.DriveTemperature{"sda": {Device: "sda"}}))
}
