package predict

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Skufu/cadrisk/internal/model"
)

// Form field names accepted by POST /predict.
const (
	FieldAge    = "age"
	FieldSex    = "sex"
	FieldBMI    = "bmi"
	FieldDM     = "dm"
	FieldHTN    = "htn"
	FieldSmoker = "smoker"
	FieldLDL    = "ldl"
	FieldHDL    = "hdl"
	FieldEF     = "ef"
	FieldVHD    = "vhd"
	FieldBP     = "bp"
)

// Column names of the record the preprocessor was fit against.
const (
	ColAge              = "Age"
	ColSex              = "Sex"
	ColBMI              = "BMI"
	ColDM               = "DM"
	ColHTN              = "HTN"
	ColCurrentSmoker    = "Current Smoker"
	ColLDL              = "LDL"
	ColHDL              = "HDL"
	ColEF               = "EF-TTE"
	ColVHD              = "VHD"
	ColTotalCholesterol = "Total_Cholesterol"
	ColCholesterolRatio = "Cholesterol_Ratio"
	ColBPBMIInteraction = "BP_BMI_Interaction"
)

// Columns lists the model input columns in order. BP is not a model input
// on its own; it only reaches the model through BP_BMI_Interaction.
var Columns = []string{
	ColAge, ColSex, ColBMI, ColDM, ColHTN, ColCurrentSmoker, ColLDL, ColHDL, ColEF, ColVHD,
	ColTotalCholesterol, ColCholesterolRatio, ColBPBMIInteraction,
}

// Record is one patient submission after parsing. It is comparable and is
// used directly as a cache key.
type Record struct {
	Age           float64
	Sex           string
	BMI           float64
	DM            int
	HTN           int
	CurrentSmoker int
	LDL           float64
	HDL           float64
	EF            float64
	VHD           string
	BP            float64
}

// ParseForm builds a Record from submitted form values. The first failing
// field, in submission order, is reported.
func ParseForm(form url.Values) (Record, error) {
	p := formParser{form: form}
	rec := Record{
		Age:           p.float(FieldAge),
		Sex:           p.str(FieldSex),
		BMI:           p.float(FieldBMI),
		DM:            p.flag(FieldDM),
		HTN:           p.flag(FieldHTN),
		CurrentSmoker: p.flag(FieldSmoker),
		LDL:           p.float(FieldLDL),
		HDL:           p.float(FieldHDL),
		EF:            p.float(FieldEF),
		VHD:           p.str(FieldVHD),
		BP:            p.float(FieldBP),
	}
	if p.err != nil {
		return Record{}, p.err
	}
	return rec, nil
}

func (r Record) TotalCholesterol() float64 {
	return TotalCholesterol(r.LDL, r.HDL)
}

func (r Record) CholesterolRatio() float64 {
	return CholesterolRatio(r.LDL, r.HDL)
}

func (r Record) BPBMIInteraction() float64 {
	return BPBMIInteraction(r.BP, r.BMI)
}

// Row assembles the single-row model input.
func (r Record) Row() model.Row {
	return model.Row{
		ColAge:              model.Number(r.Age),
		ColSex:              model.String(r.Sex),
		ColBMI:              model.Number(r.BMI),
		ColDM:               model.Number(float64(r.DM)),
		ColHTN:              model.Number(float64(r.HTN)),
		ColCurrentSmoker:    model.Number(float64(r.CurrentSmoker)),
		ColLDL:              model.Number(r.LDL),
		ColHDL:              model.Number(r.HDL),
		ColEF:               model.Number(r.EF),
		ColVHD:              model.String(r.VHD),
		ColTotalCholesterol: model.Number(r.TotalCholesterol()),
		ColCholesterolRatio: model.Number(r.CholesterolRatio()),
		ColBPBMIInteraction: model.Number(r.BPBMIInteraction()),
	}
}

// formParser keeps the first error and turns later calls into no-ops.
type formParser struct {
	form url.Values
	err  error
}

func (p *formParser) lookup(key string, required bool) (string, bool) {
	if p.err != nil {
		return "", false
	}
	vals, ok := p.form[key]
	if !ok || len(vals) == 0 {
		if required {
			p.err = &ValidationError{Field: key, Err: fmt.Errorf("%w: %s", ErrMissingField, key)}
		}
		return "", false
	}
	return vals[0], true
}

func (p *formParser) str(key string) string {
	raw, _ := p.lookup(key, true)
	return raw
}

func (p *formParser) float(key string) float64 {
	raw, ok := p.lookup(key, true)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = &ValidationError{Field: key, Err: fmt.Errorf("%w for %s: %q", ErrInvalidNumber, key, raw)}
		return 0
	}
	return v
}

// flag parses an optional integer field that defaults to 0 when absent.
func (p *formParser) flag(key string) int {
	raw, ok := p.lookup(key, false)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.err = &ValidationError{Field: key, Err: fmt.Errorf("%w for %s: %q", ErrInvalidNumber, key, raw)}
		return 0
	}
	return v
}
