package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Classifier kinds understood by the loader.
const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
)

// Classifier produces per-class probabilities for each row of a feature
// matrix. Implementations are read-only after loading and safe for
// concurrent use.
type Classifier interface {
	PredictProba(x [][]float64) ([][]float64, error)
	NumFeatures() int
	Kind() string
}

type classifierHeader struct {
	Kind        string     `json:"kind"`
	Classes     []Category `json:"classes"`
	NFeaturesIn int        `json:"n_features_in"`
}

// decodeClassifier picks the concrete classifier by its kind field.
func decodeClassifier(raw json.RawMessage) (Classifier, error) {
	var head classifierHeader
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: decode model header: %v", ErrInvalidArtifact, err)
	}
	if len(head.Classes) != 2 {
		return nil, fmt.Errorf("%w: binary classifier needs 2 classes, got %d", ErrInvalidArtifact, len(head.Classes))
	}
	if head.Classes[0] == head.Classes[1] {
		return nil, fmt.Errorf("%w: duplicate class label %s", ErrInvalidArtifact, head.Classes[0])
	}
	if head.NFeaturesIn <= 0 {
		return nil, fmt.Errorf("%w: n_features_in must be positive", ErrInvalidArtifact)
	}

	switch head.Kind {
	case KindLogisticRegression:
		lr := &LogisticRegression{}
		if err := json.Unmarshal(raw, lr); err != nil {
			return nil, fmt.Errorf("decode logistic regression: %w", err)
		}
		if err := lr.validate(); err != nil {
			return nil, err
		}
		return lr, nil
	case KindDecisionTree:
		dt := &DecisionTree{}
		if err := json.Unmarshal(raw, dt); err != nil {
			return nil, fmt.Errorf("decode decision tree: %w", err)
		}
		if err := dt.validate(head.NFeaturesIn); err != nil {
			return nil, err
		}
		return dt, nil
	case KindRandomForest:
		rf := &RandomForest{}
		if err := json.Unmarshal(raw, rf); err != nil {
			return nil, fmt.Errorf("decode random forest: %w", err)
		}
		if err := rf.validate(); err != nil {
			return nil, err
		}
		return rf, nil
	default:
		return nil, fmt.Errorf("%w: model kind %q", ErrUnsupportedKind, head.Kind)
	}
}

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	Classes     []Category `json:"classes"`
	NFeaturesIn int        `json:"n_features_in"`
	Coef        []float64  `json:"coef"`
	Intercept   float64    `json:"intercept"`
}

func (lr *LogisticRegression) validate() error {
	if len(lr.Coef) != lr.NFeaturesIn {
		return fmt.Errorf("%w: logistic regression has %d coefficients for %d features", ErrInvalidArtifact, len(lr.Coef), lr.NFeaturesIn)
	}
	return nil
}

func (lr *LogisticRegression) NumFeatures() int { return lr.NFeaturesIn }

func (lr *LogisticRegression) Kind() string { return KindLogisticRegression }

func (lr *LogisticRegression) PredictProba(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != lr.NFeaturesIn {
			return nil, fmt.Errorf("%w: row has %d features, model expects %d", ErrSchemaMismatch, len(row), lr.NFeaturesIn)
		}
		z := lr.Intercept
		for j, w := range lr.Coef {
			z += w * row[j]
		}
		p := sigmoid(z)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
