// Package predict turns a submitted patient form into a CAD risk estimate
// using a loaded model artifact.
package predict

import (
	"fmt"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Skufu/cadrisk/internal/model"
)

// Scorer returns P(positive class) for each row. *model.Artifact satisfies it.
type Scorer interface {
	PositiveProbability(rows []model.Row) ([]float64, error)
}

// Result is the response of a successful prediction.
type Result struct {
	Risk           string  `json:"risk"`
	Interpretation string  `json:"interpretation"`
	Probability    float64 `json:"-"`
	Cached         bool    `json:"-"`
}

// Service runs predictions against a shared, read-only scorer.
type Service struct {
	scorer Scorer
	cache  *lru.Cache[Record, Result]
}

// NewService builds a Service. cacheSize of 0 disables result caching.
func NewService(scorer Scorer, cacheSize int) (*Service, error) {
	if scorer == nil {
		return nil, fmt.Errorf("predict: nil scorer")
	}
	s := &Service{scorer: scorer}
	if cacheSize < 0 {
		return nil, fmt.Errorf("predict: negative cache size %d", cacheSize)
	}
	if cacheSize > 0 {
		cache, err := lru.New[Record, Result](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("predict: create cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Predict parses the form and scores it. Every failure is returned as a
// *ValidationError.
func (s *Service) Predict(form url.Values) (Result, error) {
	rec, err := ParseForm(form)
	if err != nil {
		return Result{}, err
	}
	return s.PredictRecord(rec)
}

// PredictRecord scores an already parsed record.
func (s *Service) PredictRecord(rec Record) (Result, error) {
	if s.cache != nil {
		if res, ok := s.cache.Get(rec); ok {
			res.Cached = true
			return res, nil
		}
	}

	probs, err := s.scorer.PositiveProbability([]model.Row{rec.Row()})
	if err != nil {
		return Result{}, &ValidationError{Err: err}
	}
	if len(probs) != 1 {
		return Result{}, &ValidationError{Err: fmt.Errorf("scorer returned %d results for 1 row", len(probs))}
	}

	p := probs[0]
	res := Result{
		Risk:           FormatRisk(p),
		Interpretation: Interpret(p),
		Probability:    p,
	}
	if s.cache != nil {
		s.cache.Add(rec, res)
	}
	return res, nil
}
