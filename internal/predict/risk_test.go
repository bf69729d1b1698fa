package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpret_Thresholds(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, LowRisk},
		{0.1, LowRisk},
		{0.30, LowRisk},
		{0.3000001, ModerateRisk},
		{0.5, ModerateRisk},
		{0.70, ModerateRisk},
		{0.7000001, HighRisk},
		{1, HighRisk},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpret(tt.p), "p=%v", tt.p)
	}
}

func TestInterpret_ExactlyOneLabel(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		high := p > 0.70
		moderate := p > 0.30 && p <= 0.70
		low := p <= 0.30

		n := 0
		for _, b := range []bool{high, moderate, low} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "p=%v", p)

		switch Interpret(p) {
		case HighRisk:
			assert.True(t, high, "p=%v", p)
		case ModerateRisk:
			assert.True(t, moderate, "p=%v", p)
		case LowRisk:
			assert.True(t, low, "p=%v", p)
		}
	}
}

func TestFormatRisk(t *testing.T) {
	assert.Equal(t, "73.4%", FormatRisk(0.734))
	assert.Equal(t, "50.0%", FormatRisk(0.5))
	assert.Equal(t, "0.0%", FormatRisk(0))
	assert.Equal(t, "100.0%", FormatRisk(1))
	assert.Equal(t, "85.8%", FormatRisk(0.85815))
}
