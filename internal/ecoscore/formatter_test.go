package ecoscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{18248, "18,248"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestFormatKg(t *testing.T) {
	assert.Equal(t, "0.5 kg", FormatKg(0.5))
	assert.Equal(t, "7.5 kg", FormatKg(7.5))
	assert.Equal(t, "1,234.6 kg", FormatKg(1234.56))
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "~1.5 billion", FormatLarge(1.5e9))
	assert.Equal(t, "~2.0 million", FormatLarge(2e6))
	assert.Equal(t, "12,345", FormatLarge(12345.4))
}
