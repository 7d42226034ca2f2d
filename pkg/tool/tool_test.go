package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTag(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		wantKey   string
		wantValue string
	}{
		{name: "обычный", tag: "sensor:coretemp-isa-0000", wantKey: "sensor", wantValue: "coretemp-isa-0000"},
		{name: "двоеточие в значении", tag: "component:Package id 0: x", wantKey: "component", wantValue: "Package id 0: x"},
		{name: "без значения", tag: "drive", wantKey: "drive", wantValue: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value := SplitTag(tt.tag)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
			if tt.wantValue != "" {
				assert.Equal(t, tt.tag, Tag(key, value))
			}
		})
	}
}

func TestFloatEqual(t *testing.T) {
	assert.True(t, FloatEqual(nil, nil))
	assert.False(t, FloatEqual(Float(1), nil))
	assert.False(t, FloatEqual(nil, Float(1)))
	assert.True(t, FloatEqual(Float(-5), Float(-5)))
	assert.False(t, FloatEqual(Float(1), Float(2)))
}
