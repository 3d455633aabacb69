package wine

import (
	"errors"
	"reflect"
	"testing"

	"winequality/ml"
)

// fakeModel returns the sum of its inputs so tests can tell vectors apart.
type fakeModel struct {
	calls int
	err   error
}

func (f *fakeModel) Predict(features []float64) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	sum := 0.0
	for _, v := range features {
		sum += v
	}
	return sum, nil
}

func newTestPredictor(t *testing.T, model ml.Model, cacheSize int) *Predictor {
	t.Helper()
	handle := ml.NewHandle(model, artifactNames(), "RandomForestRegressor", "balanced_features_with_ratio")
	p, err := NewPredictor(handle, cacheSize)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPredictRecord(t *testing.T) {
	p := newTestPredictor(t, &fakeModel{}, 0)

	result, err := p.PredictRecord(sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.FeaturesUsed) != 10 {
		t.Fatalf("expected 10 features used, got %d", len(result.FeaturesUsed))
	}
	if result.FeaturesUsed["volatile acidity"] != 0.7 {
		t.Fatalf("unexpected features_used: %+v", result.FeaturesUsed)
	}
	if result.ModelInfo.ModelType != "RandomForestRegressor" {
		t.Fatalf("unexpected model info: %+v", result.ModelInfo)
	}
	if result.ModelInfo.FeatureSet != "balanced_features_with_ratio" {
		t.Fatalf("unexpected feature set: %+v", result.ModelInfo)
	}
	if result.Prediction == 0 {
		t.Fatal("expected non-zero prediction from fake model")
	}
}

func TestPredictRecordIdempotent(t *testing.T) {
	p := newTestPredictor(t, &fakeModel{}, 0)

	first, err := p.PredictRecord(sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.PredictRecord(sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestPredictRecordCache(t *testing.T) {
	model := &fakeModel{}
	p := newTestPredictor(t, model, 16)

	first, _ := p.PredictRecord(sampleRecord())
	second, _ := p.PredictRecord(sampleRecord())

	if model.calls != 1 {
		t.Fatalf("expected one model invocation, got %d", model.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}

	other := sampleRecord()
	other.Alcohol = 12.0
	p.PredictRecord(other)
	if model.calls != 2 {
		t.Fatalf("expected cache miss for a different record, got %d calls", model.calls)
	}
}

func TestPredictRecordModelError(t *testing.T) {
	wantErr := errors.New("boom")
	p := newTestPredictor(t, &fakeModel{err: wantErr}, 0)

	if _, err := p.PredictRecord(sampleRecord()); !errors.Is(err, wantErr) {
		t.Fatalf("expected model error to propagate, got %v", err)
	}
}

func TestPredictStrings(t *testing.T) {
	p := newTestPredictor(t, &fakeModel{}, 0)

	cells := map[string]string{
		"volatile_acidity": "0.7", "chlorides": "0.08", "free_sulfur_dioxide": "15",
		"total_sulfur_dioxide": "110", "density": "0.9978", "pH": "3.2",
		"sulphates": "0.6", "alcohol": "10.5", "type_white": "2",
	}
	_, err := p.PredictStrings(cells)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for type_white=2, got %v", err)
	}

	cells["type_white"] = "1"
	result, err := p.PredictStrings(cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.FeaturesUsed) != 10 {
		t.Fatalf("expected 10 features used, got %d", len(result.FeaturesUsed))
	}
}
