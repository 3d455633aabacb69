// Package http 提供预测API处理器
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"winequality/db"
	"winequality/monitoring"
	"winequality/pipeline"
	"winequality/wine"
)

var (
	predictor      *wine.Predictor
	batchPredictor *pipeline.BatchPredictor
	monitor        *monitoring.Monitor
)

// SetPredictor 注入单条预测器（批量预测器随之重建）
func SetPredictor(p *wine.Predictor) {
	predictor = p
	if p != nil {
		batchPredictor = pipeline.NewBatchPredictor(p)
	} else {
		batchPredictor = nil
	}
}

// SetMonitor 注入监控器
func SetMonitor(m *monitoring.Monitor) {
	monitor = m
}

// RegisterHandlers 注册所有处理器
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /info", handleInfo)
	mux.HandleFunc("POST /predict", handlePredict)
	mux.HandleFunc("POST /batch-predict", handleBatchPredict)
	mux.HandleFunc("GET /api/history", handleHistory)
	mux.HandleFunc("GET /api/stats", handleStats)
	mux.HandleFunc("GET /api/ws/monitor", handleMonitorWS)
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func handleInfo(w http.ResponseWriter, r *http.Request) {
	if predictor == nil {
		respondError(w, http.StatusInternalServerError, "model not loaded")
		return
	}

	info := predictor.Info()
	respondJSON(w, map[string]interface{}{
		"model_type":  info.ModelType,
		"feature_set": info.FeatureSet,
		"features":    predictor.FeatureNames(),
		"api_type":    "REST",
	})
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	if predictor == nil {
		respondError(w, http.StatusInternalServerError, "model not loaded")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	record, err := wine.RecordFromJSON(body)
	if err != nil {
		var verr *wine.ValidationError
		if errors.As(err, &verr) {
			// 语义验证失败
			respondError(w, http.StatusUnprocessableEntity, verr.Error())
		} else {
			respondError(w, http.StatusBadRequest, "malformed request body")
		}
		return
	}

	result, err := predictor.PredictRecord(record)
	if err != nil {
		zap.S().Errorw("prediction failed", "error", err)
		respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	// 历史记录尽力写入，不影响响应
	if err := db.SavePrediction("single", result); err != nil {
		zap.S().Warnw("failed to save prediction", "error", err)
	}
	if monitor != nil {
		monitor.RecordPrediction(result.Prediction)
	}

	respondJSON(w, result)
}

func handleBatchPredict(w http.ResponseWriter, r *http.Request) {
	if batchPredictor == nil {
		respondError(w, http.StatusInternalServerError, "model not loaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "file must be CSV format")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := batchPredictor.PredictCSV(content)
	if err != nil {
		var parseErr *pipeline.BatchParseError
		if errors.As(err, &parseErr) {
			respondError(w, http.StatusBadRequest, parseErr.Error())
		} else {
			zap.S().Errorw("batch prediction failed", "error", err)
			respondError(w, http.StatusInternalServerError, "batch prediction failed")
		}
		return
	}

	if err := db.SaveBatch(result.RowCount, result.SuccessCount, result.SuccessRate(), result.ModelInfo.ModelType); err != nil {
		zap.S().Warnw("failed to save batch", "error", err)
	}
	if monitor != nil {
		monitor.RecordBatch(result.RowCount, result.SuccessCount, result.SuccessRate())
	}

	if downloadRequested(r.URL.Query().Get("download")) {
		payload, err := result.EmitCSV()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to serialize results")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="wine_predictions.csv"`)
		w.Write(payload)
		return
	}

	respondJSON(w, map[string]interface{}{
		"predictions":  result.Predictions(),
		"row_count":    result.RowCount,
		"success_rate": result.SuccessRate(),
		"model_info":   result.ModelInfo,
	})
}

// downloadRequested 接受的真值集合
func downloadRequested(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "t", "y", "yes":
		return true
	}
	return false
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	rows, err := db.QueryRecent(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query history")
		return
	}
	if rows == nil {
		rows = []db.PredictionRow{}
	}

	respondJSON(w, map[string]interface{}{
		"history": rows,
		"count":   len(rows),
	})
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	if monitor == nil {
		respondError(w, http.StatusInternalServerError, "monitor not running")
		return
	}
	respondJSON(w, monitor.Stats())
}

func handleMonitorWS(w http.ResponseWriter, r *http.Request) {
	if monitor == nil {
		respondError(w, http.StatusInternalServerError, "monitor not running")
		return
	}
	monitor.Hub().HandleWebSocket(w, r)
}
