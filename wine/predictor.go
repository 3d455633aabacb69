package wine

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"winequality/ml"
)

// ModelInfo is the metadata snapshot attached to every result.
type ModelInfo struct {
	ModelType  string `json:"model_type"`
	FeatureSet string `json:"feature_set"`
}

// PredictionResult is the shaped output for one scored record.
type PredictionResult struct {
	Prediction   float64            `json:"prediction"`
	FeaturesUsed map[string]float64 `json:"features_used"`
	ModelInfo    ModelInfo          `json:"model_info"`
}

// Predictor runs the validate -> derive -> predict -> shape pipeline over
// an immutable model handle. The pipeline is a pure function of the record,
// so identical records are served from a small LRU cache.
type Predictor struct {
	handle *ml.Handle
	cache  *lru.Cache[string, PredictionResult]
}

// NewPredictor wraps a loaded handle. cacheSize <= 0 disables the cache.
func NewPredictor(handle *ml.Handle, cacheSize int) (*Predictor, error) {
	p := &Predictor{handle: handle}
	if cacheSize > 0 {
		cache, err := lru.New[string, PredictionResult](cacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

// PredictRecord scores one validated record.
func (p *Predictor) PredictRecord(r Record) (PredictionResult, error) {
	key := r.cacheKey()
	if p.cache != nil {
		if result, ok := p.cache.Get(key); ok {
			return result, nil
		}
	}

	vector, err := Derive(r, p.handle.FeatureNames())
	if err != nil {
		return PredictionResult{}, err
	}

	score, err := p.handle.Predict(vector.Values)
	if err != nil {
		return PredictionResult{}, err
	}

	result := PredictionResult{
		Prediction:   score,
		FeaturesUsed: vector.Map(),
		ModelInfo: ModelInfo{
			ModelType:  p.handle.ModelType(),
			FeatureSet: p.handle.FeatureSetName(),
		},
	}
	if p.cache != nil {
		p.cache.Add(key, result)
	}
	return result, nil
}

// PredictStrings validates text cells (one CSV row) and scores them.
func (p *Predictor) PredictStrings(cells map[string]string) (PredictionResult, error) {
	record, err := RecordFromStrings(cells)
	if err != nil {
		return PredictionResult{}, err
	}
	return p.PredictRecord(record)
}

// Info returns the predictor's model metadata.
func (p *Predictor) Info() ModelInfo {
	return ModelInfo{
		ModelType:  p.handle.ModelType(),
		FeatureSet: p.handle.FeatureSetName(),
	}
}

// FeatureNames exposes the handle's ordered feature list.
func (p *Predictor) FeatureNames() []string {
	return p.handle.FeatureNames()
}
