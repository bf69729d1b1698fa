package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCholesterolRatio_ZeroGuard(t *testing.T) {
	tests := []struct {
		name     string
		ldl, hdl float64
		want     float64
	}{
		{"normal", 150, 40, 3.75},
		{"just above floor", 1, 0.02, 50},
		{"at floor", 1, 0.01, 100},
		{"below floor", 1, 0.005, 100},
		{"zero", 2, 0, 200},
		{"negative", 2, -5, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CholesterolRatio(tt.ldl, tt.hdl), 1e-9)
		})
	}
}

func TestTotalCholesterol(t *testing.T) {
	assert.Equal(t, 190.0, TotalCholesterol(150, 40))
	assert.Equal(t, 150.5, TotalCholesterol(150, 0.5))
}

func TestBPBMIInteraction(t *testing.T) {
	assert.InDelta(t, 35.1, BPBMIInteraction(130, 27), 1e-12)
	assert.Equal(t, 0.0, BPBMIInteraction(0, 27))
}

func TestRecordDerivedFeatures_WorkedExample(t *testing.T) {
	rec := Record{Age: 60, Sex: "Male", BMI: 27, LDL: 150, HDL: 40, EF: 55, VHD: "N", BP: 130}

	assert.Equal(t, 190.0, rec.TotalCholesterol())
	assert.Equal(t, 3.75, rec.CholesterolRatio())
	assert.InDelta(t, 35.1, rec.BPBMIInteraction(), 1e-12)

	row := rec.Row()
	assert.Len(t, row, len(Columns))
	for _, col := range Columns {
		assert.Contains(t, row, col)
	}
	assert.NotContains(t, row, "BP")
}
