// Package model loads the fitted preprocessing transform and classifier
// exported by the training pipeline and evaluates them.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// FormatVersion is the only artifact layout this loader reads.
const FormatVersion = 1

// Artifact bundles the fitted preprocessor with the classifier trained on
// its output. It is immutable once loaded.
type Artifact struct {
	Preprocessor Preprocessor
	Classifier   Classifier
	Path         string
}

type artifactFile struct {
	FormatVersion int                `json:"format_version"`
	Preprocessor  *ColumnTransformer `json:"preprocessor"`
	Model         json.RawMessage    `json:"model"`
}

// Summary describes a loaded artifact.
type Summary struct {
	Path            string   `json:"path,omitempty"`
	Columns         []string `json:"columns"`
	Transformers    []string `json:"transformers,omitempty"`
	OutputWidth     int      `json:"outputWidth"`
	ClassifierKind  string   `json:"classifier"`
	ClassifierWidth int      `json:"classifierFeatures"`
}

// LoadArtifact reads and validates the artifact at path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	a, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	a.Path = path
	return a, nil
}

// ParseArtifact decodes an artifact from its JSON encoding.
func ParseArtifact(data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if file.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: format_version %d", ErrUnsupportedKind, file.FormatVersion)
	}
	if file.Preprocessor == nil {
		return nil, fmt.Errorf("%w: missing preprocessor", ErrInvalidArtifact)
	}
	if len(file.Model) == 0 || string(file.Model) == "null" {
		return nil, fmt.Errorf("%w: missing model", ErrInvalidArtifact)
	}

	if err := file.Preprocessor.validate(); err != nil {
		return nil, fmt.Errorf("preprocessor: %w", err)
	}
	clf, err := decodeClassifier(file.Model)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if got, want := file.Preprocessor.OutputWidth(), clf.NumFeatures(); got != want {
		return nil, fmt.Errorf("%w: preprocessor emits %d features, model expects %d", ErrInvalidArtifact, got, want)
	}

	return &Artifact{
		Preprocessor: file.Preprocessor,
		Classifier:   clf,
	}, nil
}

// PositiveProbability transforms rows and returns P(class index 1) for each.
func (a *Artifact) PositiveProbability(rows []Row) ([]float64, error) {
	x, err := a.Preprocessor.Transform(rows)
	if err != nil {
		return nil, err
	}
	proba, err := a.Classifier.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(proba))
	for i, p := range proba {
		if len(p) < 2 {
			return nil, fmt.Errorf("%w: classifier returned %d class probabilities", ErrSchemaMismatch, len(p))
		}
		if !finite(p[1]) {
			return nil, fmt.Errorf("%w: classifier returned probability %v", ErrNonFinite, p[1])
		}
		out[i] = p[1]
	}
	return out, nil
}

// Summary reports the shape of the loaded artifact.
func (a *Artifact) Summary() Summary {
	s := Summary{
		Path:            a.Path,
		Columns:         a.Preprocessor.Columns(),
		OutputWidth:     a.Preprocessor.OutputWidth(),
		ClassifierKind:  a.Classifier.Kind(),
		ClassifierWidth: a.Classifier.NumFeatures(),
	}
	if ct, ok := a.Preprocessor.(*ColumnTransformer); ok {
		for _, t := range ct.Transformers {
			s.Transformers = append(s.Transformers, t.Name+":"+t.Kind)
		}
	}
	return s
}
