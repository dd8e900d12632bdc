package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#112233", want: Color{R: 0x11, G: 0x22, B: 0x33, A: 0xFF}},
		{in: "11223344", want: Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{in: "Pink", want: DefaultColor},
		{in: "#12345", wantErr: true},
		{in: "#GGHHII", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColor_Hex(t *testing.T) {
	c := Color{R: 0x0A, G: 0xB0, B: 0xFF, A: 0x80}

	assert.Equal(t, "#0AB0FF80", c.Hex())
	assert.Equal(t, "#0AB0FF", c.RGBHex())
	assert.Equal(t, c, ColorOrDefault(c.Hex()))
	assert.Equal(t, DefaultColor, ColorOrDefault("not a color"))
}
