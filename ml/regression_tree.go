package ml

import (
	"errors"
)

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// RegressionForest averages the outputs of one or more regression trees.
// Each tree is a flat node array; index 0 is the root.
type RegressionForest struct {
	trees [][]TreeNode
}

func NewRegressionForest(trees [][]TreeNode) *RegressionForest {
	return &RegressionForest{trees: trees}
}

func (f *RegressionForest) Predict(features []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, errors.New("model is empty")
	}
	sum := 0.0
	for _, nodes := range f.trees {
		value, err := predictTree(nodes, features)
		if err != nil {
			return 0, err
		}
		sum += value
	}
	return sum / float64(len(f.trees)), nil
}

func (f *RegressionForest) TreeCount() int {
	return len(f.trees)
}

func predictTree(nodes []TreeNode, features []float64) (float64, error) {
	if len(nodes) == 0 {
		return 0, errors.New("tree has no nodes")
	}
	idx := 0
	for {
		node := nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}
