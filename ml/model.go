package ml

// Model maps an ordered feature vector to a scalar score.
type Model interface {
	Predict(features []float64) (float64, error)
}

// Handle wraps a loaded model together with the feature order it expects
// and its metadata. It is never mutated after load, so a single Handle is
// safe to share across concurrent requests.
type Handle struct {
	model          Model
	featureNames   []string
	modelType      string
	featureSetName string
}

func NewHandle(model Model, featureNames []string, modelType, featureSetName string) *Handle {
	return &Handle{
		model:          model,
		featureNames:   featureNames,
		modelType:      modelType,
		featureSetName: featureSetName,
	}
}

// Predict runs the model on a vector whose order matches FeatureNames.
func (h *Handle) Predict(features []float64) (float64, error) {
	return h.model.Predict(features)
}

func (h *Handle) FeatureNames() []string {
	return h.featureNames
}

func (h *Handle) ModelType() string {
	return h.modelType
}

func (h *Handle) FeatureSetName() string {
	return h.featureSetName
}
