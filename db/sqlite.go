package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"winequality/wine"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source TEXT NOT NULL,
        prediction REAL NOT NULL,
        features TEXT,
        model_type TEXT,
        feature_set TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS batches (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        row_count INTEGER NOT NULL,
        success_count INTEGER NOT NULL,
        success_rate REAL NOT NULL,
        model_type TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `

	_, err = database.Exec(query)
	return err
}

// Close closes the database handle
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// SavePrediction records one served prediction
func SavePrediction(source string, result wine.PredictionResult) error {
	if database == nil {
		return errors.New("database not initialized")
	}

	features, err := json.Marshal(result.FeaturesUsed)
	if err != nil {
		return err
	}

	_, err = database.Exec(`
        INSERT INTO predictions (source, prediction, features, model_type, feature_set)
        VALUES (?, ?, ?, ?, ?)`,
		source, result.Prediction, string(features), result.ModelInfo.ModelType, result.ModelInfo.FeatureSet)
	return err
}

// SaveBatch records the aggregate outcome of one batch
func SaveBatch(rowCount, successCount int, successRate float64, modelType string) error {
	if database == nil {
		return errors.New("database not initialized")
	}

	_, err := database.Exec(`
        INSERT INTO batches (row_count, success_count, success_rate, model_type)
        VALUES (?, ?, ?, ?)`,
		rowCount, successCount, successRate, modelType)
	return err
}

// PredictionRow is one saved prediction returned by QueryRecent
type PredictionRow struct {
	ID         int64              `json:"id"`
	Source     string             `json:"source"`
	Prediction float64            `json:"prediction"`
	Features   map[string]float64 `json:"features,omitempty"`
	ModelType  string             `json:"model_type"`
	CreatedAt  time.Time          `json:"created_at"`
}

// QueryRecent returns the most recent predictions, newest first
func QueryRecent(limit int) ([]PredictionRow, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := database.Query(`
        SELECT id, source, prediction, features, model_type, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PredictionRow
	for rows.Next() {
		var row PredictionRow
		var features sql.NullString
		var modelType sql.NullString
		if err := rows.Scan(&row.ID, &row.Source, &row.Prediction, &features, &modelType, &row.CreatedAt); err != nil {
			return nil, err
		}
		if modelType.Valid {
			row.ModelType = modelType.String
		}
		if features.Valid && features.String != "" {
			if err := json.Unmarshal([]byte(features.String), &row.Features); err != nil {
				row.Features = nil
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
