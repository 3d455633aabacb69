// Command genmodel writes a small deterministic wine-quality model artifact
// so the service can run without the offline training pipeline.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"winequality/ml"
)

type artifact struct {
	ModelType      string          `json:"model_type"`
	FeatureSetName string          `json:"feature_set_name"`
	FeatureNames   []string        `json:"feature_names"`
	Trees          [][]ml.TreeNode `json:"trees"`
}

// Feature indices in artifact order.
const (
	idxVolatileAcidity = iota
	idxChlorides
	idxFreeSulfurDioxide
	idxTotalSulfurDioxide
	idxDensity
	idxPH
	idxSulphates
	idxAlcohol
	idxTypeWhite
	idxRatio
)

func leaf(value float64) ml.TreeNode {
	return ml.TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: value, IsLeaf: true}
}

func split(feature int, threshold float64, left, right int) ml.TreeNode {
	return ml.TreeNode{FeatureIdx: feature, Threshold: threshold, LeftChild: left, RightChild: right}
}

func main() {
	out := flag.String("out", "./models/wine.model.json", "artifact output path")
	flag.Parse()

	a := artifact{
		ModelType:      "RandomForestRegressor",
		FeatureSetName: "balanced_features_with_ratio",
		FeatureNames: []string{
			"volatile acidity",
			"chlorides",
			"free sulfur dioxide",
			"total sulfur dioxide",
			"density",
			"pH",
			"sulphates",
			"alcohol",
			"type_white",
			"total_sulfur_dioxide_to_free_sulfur_dioxide",
		},
		Trees: [][]ml.TreeNode{
			// Higher alcohol tends toward higher quality; high volatile
			// acidity pulls it down.
			{
				split(idxAlcohol, 10.5, 1, 2),
				split(idxVolatileAcidity, 0.4, 3, 4),
				split(idxVolatileAcidity, 0.4, 5, 6),
				leaf(5.6),
				leaf(5.0),
				leaf(6.4),
				leaf(5.8),
			},
			// Sulphates and sulfur dioxide balance.
			{
				split(idxSulphates, 0.55, 1, 2),
				split(idxRatio, 4.0, 3, 4),
				split(idxTotalSulfurDioxide, 150, 5, 6),
				leaf(5.2),
				leaf(5.5),
				leaf(6.2),
				leaf(5.4),
			},
			// White and red profiles differ on density.
			{
				split(idxTypeWhite, 0.5, 1, 2),
				split(idxDensity, 0.9970, 3, 4),
				split(idxDensity, 0.9940, 5, 6),
				leaf(5.9),
				leaf(5.4),
				leaf(6.3),
				leaf(5.7),
			},
		},
	}

	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal artifact: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := os.WriteFile(*out, payload, 0o600); err != nil {
		log.Fatalf("failed to write artifact: %v", err)
	}

	log.Printf("wrote %s (%d trees, %d features)", *out, len(a.Trees), len(a.FeatureNames))
}
