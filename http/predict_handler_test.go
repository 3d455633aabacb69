package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const predictBody = `{
  "volatile_acidity": 0.7,
  "chlorides": 0.08,
  "free_sulfur_dioxide": 15,
  "total_sulfur_dioxide": 110,
  "density": 0.9978,
  "pH": 3.2,
  "sulphates": 0.6,
  "alcohol": 10.5,
  "type_white": 1
}`

func TestHandlePredict(t *testing.T) {
	setTestPredictor(t)

	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(predictBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if _, ok := payload["prediction"].(float64); !ok {
		t.Fatalf("expected float prediction, got %v", payload["prediction"])
	}

	features, ok := payload["features_used"].(map[string]interface{})
	if !ok || len(features) != 10 {
		t.Fatalf("expected 10 features_used, got %v", payload["features_used"])
	}

	modelInfo, ok := payload["model_info"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected model_info, got %v", payload["model_info"])
	}
	if modelInfo["model_type"] != "RandomForestRegressor" {
		t.Fatalf("unexpected model_type: %v", modelInfo["model_type"])
	}
	if modelInfo["feature_set"] != "balanced_features_with_ratio" {
		t.Fatalf("unexpected feature_set: %v", modelInfo["feature_set"])
	}
}

func TestHandlePredictValidationError(t *testing.T) {
	setTestPredictor(t)

	mux := http.NewServeMux()
	RegisterHandlers(mux)

	body := strings.Replace(predictBody, `"type_white": 1`, `"type_white": 2`, 1)
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["error"] == "" {
		t.Fatal("expected error message")
	}
}

func TestHandlePredictMalformedBody(t *testing.T) {
	setTestPredictor(t)

	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleInfo(t *testing.T) {
	setTestPredictor(t)

	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["api_type"] != "REST" {
		t.Fatalf("unexpected api_type: %v", payload["api_type"])
	}
	features, ok := payload["features"].([]interface{})
	if !ok || len(features) != 10 {
		t.Fatalf("expected 10 feature names, got %v", payload["features"])
	}
}
