package model

import (
	"fmt"
)

// TreeNode is one node of an exported decision tree. Leaves have Left and
// Right set to -1. Value holds the per-class training weight at the node.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

func (n TreeNode) isLeaf() bool {
	return n.Left < 0
}

// DecisionTree is a fitted binary classification tree. Samples with
// feature <= threshold go left.
type DecisionTree struct {
	Classes     []Category `json:"classes"`
	NFeaturesIn int        `json:"n_features_in"`
	Nodes       []TreeNode `json:"nodes"`
}

func (dt *DecisionTree) validate(nFeatures int) error {
	if len(dt.Nodes) == 0 {
		return fmt.Errorf("%w: decision tree has no nodes", ErrInvalidArtifact)
	}
	dt.NFeaturesIn = nFeatures
	for i, node := range dt.Nodes {
		if node.isLeaf() {
			if node.Right >= 0 {
				return fmt.Errorf("%w: node %d has only one child", ErrInvalidArtifact, i)
			}
			if len(node.Value) != 2 {
				return fmt.Errorf("%w: leaf %d needs 2 class weights, got %d", ErrInvalidArtifact, i, len(node.Value))
			}
			total := node.Value[0] + node.Value[1]
			if total <= 0 || node.Value[0] < 0 || node.Value[1] < 0 {
				return fmt.Errorf("%w: leaf %d has invalid class weights", ErrInvalidArtifact, i)
			}
			continue
		}
		// Children always follow their parent, which rules out cycles.
		if node.Left <= i || node.Right <= i || node.Left >= len(dt.Nodes) || node.Right >= len(dt.Nodes) {
			return fmt.Errorf("%w: node %d has invalid children %d/%d", ErrInvalidArtifact, i, node.Left, node.Right)
		}
		if node.Feature < 0 || node.Feature >= nFeatures {
			return fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidArtifact, i, node.Feature, nFeatures)
		}
	}
	return nil
}

func (dt *DecisionTree) NumFeatures() int { return dt.NFeaturesIn }

func (dt *DecisionTree) Kind() string { return KindDecisionTree }

func (dt *DecisionTree) PredictProba(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != dt.NFeaturesIn {
			return nil, fmt.Errorf("%w: row has %d features, model expects %d", ErrSchemaMismatch, len(row), dt.NFeaturesIn)
		}
		out[i] = dt.leafProba(row)
	}
	return out, nil
}

func (dt *DecisionTree) leafProba(row []float64) []float64 {
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.isLeaf() {
			total := node.Value[0] + node.Value[1]
			return []float64{node.Value[0] / total, node.Value[1] / total}
		}
		if row[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// RandomForest averages the probabilities of its trees.
type RandomForest struct {
	Classes     []Category      `json:"classes"`
	NFeaturesIn int             `json:"n_features_in"`
	Estimators  []*DecisionTree `json:"estimators"`
}

func (rf *RandomForest) validate() error {
	if len(rf.Estimators) == 0 {
		return fmt.Errorf("%w: random forest has no estimators", ErrInvalidArtifact)
	}
	for i, tree := range rf.Estimators {
		if tree == nil {
			return fmt.Errorf("%w: estimator %d is empty", ErrInvalidArtifact, i)
		}
		if err := tree.validate(rf.NFeaturesIn); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return nil
}

func (rf *RandomForest) NumFeatures() int { return rf.NFeaturesIn }

func (rf *RandomForest) Kind() string { return KindRandomForest }

func (rf *RandomForest) PredictProba(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	n := float64(len(rf.Estimators))
	for i, row := range x {
		if len(row) != rf.NFeaturesIn {
			return nil, fmt.Errorf("%w: row has %d features, model expects %d", ErrSchemaMismatch, len(row), rf.NFeaturesIn)
		}
		var p0, p1 float64
		for _, tree := range rf.Estimators {
			p := tree.leafProba(row)
			p0 += p[0]
			p1 += p[1]
		}
		out[i] = []float64{p0 / n, p1 / n}
	}
	return out, nil
}
