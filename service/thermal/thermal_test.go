package thermal

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZone(t *testing.T, root, zone, value string) {
	dir := filepath.Join(root, "thermal_zone"+zone)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "temp"), []byte(value), 0644))
}

func TestThermalRead(t *testing.T) {
	root := t.TempDir()
	writeZone(t, root, "0", "45000\n")
	writeZone(t, root, "1", "-2500\n")
	writeZone(t, root, "2", "n/a\n")

	svc, err := NewThermal(&ConfigThermal{Root: root})
	require.NoError(t, err)

	tests := []struct {
		name    string
		zone    string
		want    float64
		wantErr bool
	}{
		{name: "обычное значение", zone: "0", want: 45000},
		{name: "отрицательное значение", zone: "1", want: -2500},
		{name: "нечисловое значение", zone: "2", wantErr: true},
		{name: "зоны нет", zone: "7", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Read(tt.zone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThermalZones(t *testing.T) {
	root := t.TempDir()
	for _, zone := range []string{"10", "2", "0"} {
		writeZone(t, root, zone, "1000")
	}

	svc, err := NewThermal(&ConfigThermal{Root: root})
	require.NoError(t, err)
	zones, err := svc.Zones()
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "2", "10"}, zones)

	svc, err = NewThermal(&ConfigThermal{Root: root, Zones: []string{"1", "0"}})
	require.NoError(t, err)
	zones, err = svc.Zones()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0"}, zones, "сконфигурированный список не меняется")
}
