package ml

import (
	"testing"
)

// stump splits feature 0 at the threshold and returns the leaf values.
func stump(threshold, left, right float64) []TreeNode {
	return []TreeNode{
		{FeatureIdx: 0, Threshold: threshold, LeftChild: 1, RightChild: 2},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: left, IsLeaf: true},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: right, IsLeaf: true},
	}
}

func TestForestPredictRouting(t *testing.T) {
	forest := NewRegressionForest([][]TreeNode{stump(10, 4.0, 6.0)})

	got, err := forest.Predict([]float64{5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4.0 {
		t.Fatalf("expected left leaf 4.0, got %v", got)
	}

	got, err = forest.Predict([]float64{15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 6.0 {
		t.Fatalf("expected right leaf 6.0, got %v", got)
	}
}

func TestForestPredictAverages(t *testing.T) {
	forest := NewRegressionForest([][]TreeNode{
		stump(10, 4.0, 6.0),
		stump(10, 5.0, 7.0),
	})

	got, err := forest.Predict([]float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4.5 {
		t.Fatalf("expected average 4.5, got %v", got)
	}
}

func TestForestPredictEmpty(t *testing.T) {
	forest := NewRegressionForest(nil)
	if _, err := forest.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for empty forest")
	}
}

func TestForestPredictFeatureOutOfRange(t *testing.T) {
	nodes := []TreeNode{
		{FeatureIdx: 5, Threshold: 1, LeftChild: 1, RightChild: 1},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 1, IsLeaf: true},
	}
	forest := NewRegressionForest([][]TreeNode{nodes})
	if _, err := forest.Predict([]float64{1, 2}); err == nil {
		t.Fatal("expected error for feature index out of range")
	}
}
