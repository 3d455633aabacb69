package wine

import (
	"fmt"
	"strings"
)

// DerivedRatioName is the one computed feature appended to the raw record.
const DerivedRatioName = "total_sulfur_dioxide_to_free_sulfur_dioxide"

// FeatureVector is an ordered sequence of named values laid out exactly as
// the model expects them.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Map returns the vector as name/value pairs for response shaping.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, name := range v.Names {
		m[name] = v.Values[i]
	}
	return m
}

// Derive computes the full feature vector for a record in the order given
// by featureNames. Order comes from the model artifact, not from the record
// layout, so the positional contract survives any reordering of the raw
// fields. The artifact may spell names with spaces (the dataset's original
// column names); lookup normalizes spaces to underscores.
func Derive(r Record, featureNames []string) (FeatureVector, error) {
	available := map[string]float64{
		FieldVolatileAcidity:    r.VolatileAcidity,
		FieldChlorides:          r.Chlorides,
		FieldFreeSulfurDioxide:  r.FreeSulfurDioxide,
		FieldTotalSulfurDioxide: r.TotalSulfurDioxide,
		FieldDensity:            r.Density,
		FieldPH:                 r.PH,
		FieldSulphates:          r.Sulphates,
		FieldAlcohol:            r.Alcohol,
		FieldTypeWhite:          float64(r.TypeWhite),
		DerivedRatioName:        r.TotalSulfurDioxide / r.FreeSulfurDioxide,
	}

	vector := FeatureVector{
		Names:  featureNames,
		Values: make([]float64, len(featureNames)),
	}
	for i, name := range featureNames {
		key := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		if key == "ph" {
			key = FieldPH
		}
		value, ok := available[key]
		if !ok {
			return FeatureVector{}, fmt.Errorf("model expects unknown feature %q", name)
		}
		vector.Values[i] = value
	}
	return vector, nil
}
