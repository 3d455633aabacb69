package wine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wire-level field names, shared by the JSON and CSV inputs.
const (
	FieldVolatileAcidity    = "volatile_acidity"
	FieldChlorides          = "chlorides"
	FieldFreeSulfurDioxide  = "free_sulfur_dioxide"
	FieldTotalSulfurDioxide = "total_sulfur_dioxide"
	FieldDensity            = "density"
	FieldPH                 = "pH"
	FieldSulphates          = "sulphates"
	FieldAlcohol            = "alcohol"
	FieldTypeWhite          = "type_white"
)

// FieldNames returns the nine required input fields in wire order.
func FieldNames() []string {
	return []string{
		FieldVolatileAcidity,
		FieldChlorides,
		FieldFreeSulfurDioxide,
		FieldTotalSulfurDioxide,
		FieldDensity,
		FieldPH,
		FieldSulphates,
		FieldAlcohol,
		FieldTypeWhite,
	}
}

// Record is one validated wine sample. Immutable once constructed.
type Record struct {
	VolatileAcidity    float64 `json:"volatile_acidity"`
	Chlorides          float64 `json:"chlorides"`
	FreeSulfurDioxide  float64 `json:"free_sulfur_dioxide"`
	TotalSulfurDioxide float64 `json:"total_sulfur_dioxide"`
	Density            float64 `json:"density"`
	PH                 float64 `json:"pH"`
	Sulphates          float64 `json:"sulphates"`
	Alcohol            float64 `json:"alcohol"`
	TypeWhite          int     `json:"type_white"`
}

// RecordFromJSON parses and validates a JSON request body. Numeric strings
// are coerced; unknown keys are ignored.
func RecordFromJSON(payload []byte) (Record, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return Record{}, fmt.Errorf("malformed json: %w", err)
	}

	values := make(map[string]float64, len(FieldNames()))
	for _, name := range FieldNames() {
		v, ok := raw[name]
		if !ok || v == nil {
			return Record{}, &ValidationError{Field: name, Reason: "missing"}
		}
		f, err := coerceNumber(v)
		if err != nil {
			return Record{}, &ValidationError{Field: name, Reason: "not a number"}
		}
		values[name] = f
	}
	return fromValues(values)
}

// RecordFromStrings builds a record from text cells, as found in a CSV row.
func RecordFromStrings(cells map[string]string) (Record, error) {
	values := make(map[string]float64, len(FieldNames()))
	for _, name := range FieldNames() {
		cell, ok := cells[name]
		cell = strings.TrimSpace(cell)
		if !ok || cell == "" {
			return Record{}, &ValidationError{Field: name, Reason: "missing"}
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Record{}, &ValidationError{Field: name, Reason: "not a number"}
		}
		values[name] = f
	}
	return fromValues(values)
}

func coerceNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func fromValues(values map[string]float64) (Record, error) {
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, &ValidationError{Field: name, Reason: "not a finite number"}
		}
	}

	tw := values[FieldTypeWhite]
	if tw != math.Trunc(tw) {
		return Record{}, &ValidationError{Field: FieldTypeWhite, Reason: "must be an integer"}
	}
	if tw != 0 && tw != 1 {
		return Record{}, &ValidationError{Field: FieldTypeWhite, Reason: "must be 0 or 1"}
	}

	// The derived ratio divides by this field; zero would push a non-finite
	// value into the model, so the record is rejected instead.
	if values[FieldFreeSulfurDioxide] == 0 {
		return Record{}, &ValidationError{Field: FieldFreeSulfurDioxide, Reason: "must be non-zero"}
	}

	return Record{
		VolatileAcidity:    values[FieldVolatileAcidity],
		Chlorides:          values[FieldChlorides],
		FreeSulfurDioxide:  values[FieldFreeSulfurDioxide],
		TotalSulfurDioxide: values[FieldTotalSulfurDioxide],
		Density:            values[FieldDensity],
		PH:                 values[FieldPH],
		Sulphates:          values[FieldSulphates],
		Alcohol:            values[FieldAlcohol],
		TypeWhite:          int(tw),
	}, nil
}

func (r Record) cacheKey() string {
	return fmt.Sprintf("%g|%g|%g|%g|%g|%g|%g|%g|%d",
		r.VolatileAcidity, r.Chlorides, r.FreeSulfurDioxide, r.TotalSulfurDioxide,
		r.Density, r.PH, r.Sulphates, r.Alcohol, r.TypeWhite)
}
