// Package pipeline 提供批量CSV预测功能
package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"winequality/wine"
)

// BatchParseError 批量解析错误 - 整个批次无法处理（区别于单行验证失败）
type BatchParseError struct {
	Reason string
}

func (e *BatchParseError) Error() string {
	return "batch parse: " + e.Reason
}

// RowResult 单行处理结果
type RowResult struct {
	Index      int     `json:"row"`
	Prediction float64 `json:"prediction"`
	Err        error   `json:"-"`
}

// BatchResult 批量预测结果 - 逐行结果加聚合计数
type BatchResult struct {
	Header       []string
	Rows         [][]string
	Results      []RowResult
	RowCount     int
	SuccessCount int
	ModelInfo    wine.ModelInfo
}

// SuccessRate 成功率 [0, 1]
func (b *BatchResult) SuccessRate() float64 {
	if b.RowCount == 0 {
		return 0
	}
	return float64(b.SuccessCount) / float64(b.RowCount)
}

// Predictions 按输入行顺序返回成功行的预测值
func (b *BatchResult) Predictions() []float64 {
	predictions := make([]float64, 0, b.SuccessCount)
	for _, r := range b.Results {
		if r.Err == nil {
			predictions = append(predictions, r.Prediction)
		}
	}
	return predictions
}

// RowErrors 返回失败行及原因
func (b *BatchResult) RowErrors() []string {
	var rowErrors []string
	for _, r := range b.Results {
		if r.Err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", r.Index, r.Err))
		}
	}
	return rowErrors
}

// BatchPredictor 批量预测器 - 将CSV逐行交给单条预测管线
type BatchPredictor struct {
	predictor *wine.Predictor
}

func NewBatchPredictor(predictor *wine.Predictor) *BatchPredictor {
	return &BatchPredictor{predictor: predictor}
}

// PredictCSV 解析CSV并逐行预测。单行验证失败只记录该行，
// 不会中止批次；只有CSV本身不可解析、缺少必需列或没有数据行时
// 才返回BatchParseError。
func (bp *BatchPredictor) PredictCSV(data []byte) (*BatchResult, error) {
	reader := csv.NewReader(decodeReader(data))
	reader.TrimLeadingSpace = true
	// 字段数不一致按行处理，不让单行中止整个批次
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &BatchParseError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &BatchParseError{Reason: "empty file"}
	}

	header := records[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	// 检查必需列，多余列忽略
	var missing []string
	for _, name := range wine.FieldNames() {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &BatchParseError{Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, &BatchParseError{Reason: "no data rows"}
	}

	result := &BatchResult{
		Header:    header,
		Rows:      rows,
		Results:   make([]RowResult, 0, len(rows)),
		RowCount:  len(rows),
		ModelInfo: bp.predictor.Info(),
	}

	for i, row := range rows {
		if len(row) != len(header) {
			result.Results = append(result.Results, RowResult{
				Index: i + 1,
				Err:   fmt.Errorf("wrong number of fields: got %d, want %d", len(row), len(header)),
			})
			continue
		}

		cells := make(map[string]string, len(wine.FieldNames()))
		for _, name := range wine.FieldNames() {
			cells[name] = row[columns[name]]
		}

		prediction, err := bp.predictor.PredictStrings(cells)
		if err != nil {
			var verr *wine.ValidationError
			if !errors.As(err, &verr) {
				// 模型内部错误同样按行记录，保持批次继续
				err = fmt.Errorf("prediction failed: %w", err)
			}
			result.Results = append(result.Results, RowResult{Index: i + 1, Err: err})
			continue
		}

		result.Results = append(result.Results, RowResult{Index: i + 1, Prediction: prediction.Prediction})
		result.SuccessCount++
	}

	return result, nil
}
