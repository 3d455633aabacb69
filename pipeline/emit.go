package pipeline

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// EmitCSV 重新序列化原始各列并追加prediction列。
// 验证失败的行保留原样，prediction单元格留空。
func (b *BatchResult) EmitCSV() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(append(append([]string{}, b.Header...), "prediction")); err != nil {
		return nil, err
	}

	for i, row := range b.Rows {
		cell := ""
		if b.Results[i].Err == nil {
			cell = strconv.FormatFloat(b.Results[i].Prediction, 'g', -1, 64)
		}
		if err := writer.Write(append(append([]string{}, row...), cell)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
