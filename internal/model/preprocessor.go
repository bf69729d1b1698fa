package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Transformer kinds understood by ColumnTransformer.
const (
	KindStandardScaler = "standard_scaler"
	KindMinMaxScaler   = "min_max_scaler"
	KindOneHot         = "one_hot"
	KindPassthrough    = "passthrough"
)

const (
	remainderDrop        = "drop"
	remainderPassthrough = "passthrough"

	handleUnknownError  = "error"
	handleUnknownIgnore = "ignore"
)

// Preprocessor maps raw rows to the numeric matrix the classifier expects.
type Preprocessor interface {
	Transform(rows []Row) ([][]float64, error)
	OutputWidth() int
	Columns() []string
}

// Transformer is one fitted step of a ColumnTransformer applied to a subset
// of the input columns.
type Transformer struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`

	// standard_scaler
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`

	// min_max_scaler
	DataMin []float64 `json:"data_min,omitempty"`
	DataMax []float64 `json:"data_max,omitempty"`

	// one_hot
	Categories    [][]Category `json:"categories,omitempty"`
	HandleUnknown string       `json:"handle_unknown,omitempty"`
}

// ColumnTransformer applies each Transformer to its columns and concatenates
// the outputs in declaration order, followed by the remainder columns.
type ColumnTransformer struct {
	FeatureNamesIn []string      `json:"feature_names_in"`
	Transformers   []Transformer `json:"transformers"`
	Remainder      string        `json:"remainder"`

	remainderCols []string
	width         int
}

// validate checks parameter shapes and computes derived layout. It must be
// called once before Transform.
func (ct *ColumnTransformer) validate() error {
	if len(ct.FeatureNamesIn) == 0 {
		return fmt.Errorf("%w: preprocessor has no feature_names_in", ErrInvalidArtifact)
	}
	known := make(map[string]bool, len(ct.FeatureNamesIn))
	for _, name := range ct.FeatureNamesIn {
		if known[name] {
			return fmt.Errorf("%w: duplicate input column %q", ErrInvalidArtifact, name)
		}
		known[name] = true
	}

	used := make(map[string]string)
	width := 0
	for i := range ct.Transformers {
		t := &ct.Transformers[i]
		if len(t.Columns) == 0 {
			return fmt.Errorf("%w: transformer %q has no columns", ErrInvalidArtifact, t.Name)
		}
		for _, col := range t.Columns {
			if !known[col] {
				return fmt.Errorf("%w: transformer %q uses column %q not in feature_names_in", ErrInvalidArtifact, t.Name, col)
			}
			if prev, ok := used[col]; ok {
				return fmt.Errorf("%w: column %q used by both %q and %q", ErrInvalidArtifact, col, prev, t.Name)
			}
			used[col] = t.Name
		}

		n := len(t.Columns)
		switch t.Kind {
		case KindStandardScaler:
			if len(t.Mean) != n || len(t.Scale) != n {
				return fmt.Errorf("%w: transformer %q needs %d mean and scale values", ErrInvalidArtifact, t.Name, n)
			}
			width += n
		case KindMinMaxScaler:
			if len(t.DataMin) != n || len(t.DataMax) != n {
				return fmt.Errorf("%w: transformer %q needs %d data_min and data_max values", ErrInvalidArtifact, t.Name, n)
			}
			width += n
		case KindOneHot:
			if len(t.Categories) != n {
				return fmt.Errorf("%w: transformer %q needs categories for %d columns", ErrInvalidArtifact, t.Name, n)
			}
			switch t.HandleUnknown {
			case "":
				t.HandleUnknown = handleUnknownError
			case handleUnknownError, handleUnknownIgnore:
			default:
				return fmt.Errorf("%w: transformer %q handle_unknown %q", ErrUnsupportedKind, t.Name, t.HandleUnknown)
			}
			for _, cats := range t.Categories {
				if len(cats) == 0 {
					return fmt.Errorf("%w: transformer %q has an empty category list", ErrInvalidArtifact, t.Name)
				}
				width += len(cats)
			}
		case KindPassthrough:
			width += n
		default:
			return fmt.Errorf("%w: transformer %q kind %q", ErrUnsupportedKind, t.Name, t.Kind)
		}
	}

	ct.remainderCols = nil
	switch ct.Remainder {
	case "", remainderDrop:
		ct.Remainder = remainderDrop
	case remainderPassthrough:
		for _, name := range ct.FeatureNamesIn {
			if _, ok := used[name]; !ok {
				ct.remainderCols = append(ct.remainderCols, name)
			}
		}
		width += len(ct.remainderCols)
	default:
		return fmt.Errorf("%w: remainder %q", ErrUnsupportedKind, ct.Remainder)
	}

	if width == 0 {
		return fmt.Errorf("%w: preprocessor produces no features", ErrInvalidArtifact)
	}
	ct.width = width
	return nil
}

// OutputWidth returns the number of features produced per row.
func (ct *ColumnTransformer) OutputWidth() int {
	return ct.width
}

// Columns returns the input column schema in fit order.
func (ct *ColumnTransformer) Columns() []string {
	return append([]string(nil), ct.FeatureNamesIn...)
}

// Transform encodes rows into a dense matrix.
func (ct *ColumnTransformer) Transform(rows []Row) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if err := ct.checkSchema(row); err != nil {
			return nil, err
		}
		vec := make([]float64, 0, ct.width)
		for _, t := range ct.Transformers {
			var err error
			vec, err = t.apply(row, vec)
			if err != nil {
				return nil, err
			}
		}
		for _, col := range ct.remainderCols {
			v := row[col]
			if v.IsStr {
				return nil, fmt.Errorf("%w: remainder column %q is not numeric: %s", ErrSchemaMismatch, col, v)
			}
			if !finite(v.Num) {
				return nil, fmt.Errorf("%w: column %q contains %s", ErrNonFinite, col, v)
			}
			vec = append(vec, v.Num)
		}
		for j, x := range vec {
			if !finite(x) {
				return nil, fmt.Errorf("%w: output feature %d is %v after transform", ErrNonFinite, j, x)
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (ct *ColumnTransformer) checkSchema(row Row) error {
	var missing, unexpected []string
	for _, name := range ct.FeatureNamesIn {
		if _, ok := row[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(row) != len(ct.FeatureNamesIn)-len(missing) {
		known := make(map[string]bool, len(ct.FeatureNamesIn))
		for _, name := range ct.FeatureNamesIn {
			known[name] = true
		}
		for name := range row {
			if !known[name] {
				unexpected = append(unexpected, name)
			}
		}
		sort.Strings(unexpected)
	}
	switch {
	case len(missing) > 0:
		return fmt.Errorf("%w: columns are missing: %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	case len(unexpected) > 0:
		return fmt.Errorf("%w: columns not seen at fit time: %s", ErrSchemaMismatch, strings.Join(unexpected, ", "))
	}
	return nil
}

func (t Transformer) apply(row Row, vec []float64) ([]float64, error) {
	switch t.Kind {
	case KindStandardScaler:
		for j, col := range t.Columns {
			x, err := numericCell(row, col)
			if err != nil {
				return nil, err
			}
			scale := t.Scale[j]
			if scale == 0 {
				scale = 1
			}
			vec = append(vec, (x-t.Mean[j])/scale)
		}
	case KindMinMaxScaler:
		for j, col := range t.Columns {
			x, err := numericCell(row, col)
			if err != nil {
				return nil, err
			}
			span := t.DataMax[j] - t.DataMin[j]
			if span == 0 {
				vec = append(vec, 0)
				continue
			}
			vec = append(vec, (x-t.DataMin[j])/span)
		}
	case KindOneHot:
		for j, col := range t.Columns {
			v := row[col]
			hit := -1
			for k, c := range t.Categories[j] {
				if c.matches(v) {
					hit = k
					break
				}
			}
			if hit < 0 && t.HandleUnknown == handleUnknownError {
				return nil, fmt.Errorf("%w: found unknown category %s in column %q during transform", ErrUnknownCategory, v, col)
			}
			for k := range t.Categories[j] {
				if k == hit {
					vec = append(vec, 1)
				} else {
					vec = append(vec, 0)
				}
			}
		}
	case KindPassthrough:
		for _, col := range t.Columns {
			x, err := numericCell(row, col)
			if err != nil {
				return nil, err
			}
			vec = append(vec, x)
		}
	}
	return vec, nil
}

func numericCell(row Row, col string) (float64, error) {
	v := row[col]
	if v.IsStr {
		return 0, fmt.Errorf("%w: column %q expects a number, got %s", ErrSchemaMismatch, col, v)
	}
	if !finite(v.Num) {
		return 0, fmt.Errorf("%w: column %q contains %s", ErrNonFinite, col, v)
	}
	return v.Num, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
