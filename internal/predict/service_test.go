package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/cadrisk/internal/model"
)

type fakeScorer struct {
	p     float64
	err   error
	calls int
	rows  []model.Row
}

func (f *fakeScorer) PositiveProbability(rows []model.Row) ([]float64, error) {
	f.calls++
	f.rows = rows
	if f.err != nil {
		return nil, f.err
	}
	return []float64{f.p}, nil
}

func TestService_PredictTiers(t *testing.T) {
	tests := []struct {
		p         float64
		risk      string
		tierLabel string
	}{
		{0.734, "73.4%", HighRisk},
		{0.70, "70.0%", ModerateRisk},
		{0.30, "30.0%", LowRisk},
		{0.05, "5.0%", LowRisk},
	}
	for _, tt := range tests {
		svc, err := NewService(&fakeScorer{p: tt.p}, 0)
		require.NoError(t, err)

		res, err := svc.Predict(validForm())
		require.NoError(t, err)
		assert.Equal(t, tt.risk, res.Risk)
		assert.Equal(t, tt.tierLabel, res.Interpretation)
	}
}

func TestService_PassesDerivedRow(t *testing.T) {
	scorer := &fakeScorer{p: 0.5}
	svc, err := NewService(scorer, 0)
	require.NoError(t, err)

	_, err = svc.Predict(validForm())
	require.NoError(t, err)
	require.Len(t, scorer.rows, 1)

	row := scorer.rows[0]
	assert.Equal(t, model.Number(190), row[ColTotalCholesterol])
	assert.Equal(t, model.Number(3.75), row[ColCholesterolRatio])
	assert.InDelta(t, 35.1, row[ColBPBMIInteraction].Num, 1e-12)
	assert.Equal(t, model.String("Male"), row[ColSex])
}

func TestService_ScorerErrorIsValidation(t *testing.T) {
	svc, err := NewService(&fakeScorer{err: errors.New("boom")}, 0)
	require.NoError(t, err)

	_, err = svc.Predict(validForm())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "boom", err.Error())
}

func TestService_ParseErrorSkipsScorer(t *testing.T) {
	scorer := &fakeScorer{p: 0.5}
	svc, err := NewService(scorer, 0)
	require.NoError(t, err)

	form := validForm()
	form.Set("bmi", "abc")
	_, err = svc.Predict(form)
	assert.ErrorIs(t, err, ErrInvalidNumber)
	assert.Zero(t, scorer.calls)
}

func TestService_CacheIsIdempotent(t *testing.T) {
	scorer := &fakeScorer{p: 0.42}
	svc, err := NewService(scorer, 8)
	require.NoError(t, err)

	first, err := svc.Predict(validForm())
	require.NoError(t, err)
	second, err := svc.Predict(validForm())
	require.NoError(t, err)

	assert.Equal(t, 1, scorer.calls)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Risk, second.Risk)
	assert.Equal(t, first.Interpretation, second.Interpretation)
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("unseen category")}
	svc, err := NewService(scorer, 8)
	require.NoError(t, err)

	_, err = svc.Predict(validForm())
	require.Error(t, err)
	_, err = svc.Predict(validForm())
	require.Error(t, err)
	assert.Equal(t, 2, scorer.calls)
}

func TestNewService_Rejects(t *testing.T) {
	_, err := NewService(nil, 0)
	assert.Error(t, err)

	_, err = NewService(&fakeScorer{}, -1)
	assert.Error(t, err)
}

func TestService_WithFixtureArtifact(t *testing.T) {
	a, err := model.LoadArtifact("../../testdata/cad_model.json")
	require.NoError(t, err)
	svc, err := NewService(a, 0)
	require.NoError(t, err)

	res, err := svc.Predict(validForm())
	require.NoError(t, err)
	assert.Equal(t, "50.0%", res.Risk)
	assert.Equal(t, ModerateRisk, res.Interpretation)

	high := validForm()
	high.Set("dm", "1")
	high.Set("htn", "1")
	high.Set("smoker", "1")
	res, err = svc.Predict(high)
	require.NoError(t, err)
	assert.Equal(t, "85.8%", res.Risk)
	assert.Equal(t, HighRisk, res.Interpretation)

	low := validForm()
	low.Set("sex", "Female")
	low.Set("age", "40")
	res, err = svc.Predict(low)
	require.NoError(t, err)
	assert.Equal(t, LowRisk, res.Interpretation)

	unseen := validForm()
	unseen.Set("vhd", "Unknown")
	_, err = svc.Predict(unseen)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
}

func TestService_RejectsOverflowingInputs(t *testing.T) {
	a, err := model.LoadArtifact("../../testdata/cad_model.json")
	require.NoError(t, err)
	svc, err := NewService(a, 16)
	require.NoError(t, err)

	tests := map[string]map[string]string{
		"bp times bmi":       {"bp": "1e308"},
		"ldl plus hdl":       {"ldl": "1e308", "hdl": "1e308"},
		"ldl over hdl floor": {"ldl": "1e307", "hdl": "0"},
	}
	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			for k, v := range fields {
				form.Set(k, v)
			}

			res, err := svc.Predict(form)
			require.Error(t, err, "got %+v", res)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, model.ErrNonFinite)
		})
	}
}
