package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ModelLoadError reports a missing or malformed model artifact. Loading
// happens once at process start; callers treat this error as fatal.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

type artifact struct {
	ModelType      string       `json:"model_type"`
	FeatureSetName string       `json:"feature_set_name"`
	FeatureNames   []string     `json:"feature_names"`
	Trees          [][]TreeNode `json:"trees"`
}

// LoadModel reads a JSON model artifact and returns an immutable Handle.
func LoadModel(path string) (*Handle, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}

	if a.ModelType == "" {
		return nil, &ModelLoadError{Path: path, Err: errors.New("artifact missing model_type")}
	}
	if a.FeatureSetName == "" {
		return nil, &ModelLoadError{Path: path, Err: errors.New("artifact missing feature_set_name")}
	}
	if len(a.FeatureNames) == 0 {
		return nil, &ModelLoadError{Path: path, Err: errors.New("artifact missing feature_names")}
	}
	if len(a.Trees) == 0 {
		return nil, &ModelLoadError{Path: path, Err: errors.New("artifact has no trees")}
	}
	for i, nodes := range a.Trees {
		if len(nodes) == 0 {
			return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("tree %d has no nodes", i)}
		}
	}

	return NewHandle(NewRegressionForest(a.Trees), a.FeatureNames, a.ModelType, a.FeatureSetName), nil
}
