package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifacts are the read-only files exported by the training run. They are
// loaded exactly once at process start; a missing or inconsistent file keeps
// the service from starting at all.
type Artifacts struct {
	Columns []string
	Scaler  Scaler
	Info    DataInfo
	Model   SVMModel
}

// Scaler holds the fitted standard-scaler parameters for the continuous
// features.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Std     []float64 `json:"std"`
}

// DataInfo carries the categorical allow-lists and fallback values derived
// from the training data.
type DataInfo struct {
	EthnicityTop []string `json:"ethnicity_top_75"`
	CountryTop   []string `json:"country_top_75"`
	JaundiceMode int      `json:"jaundice_mode"`
}

// SVMModel is the exported linear SVM: weights aligned to the model column
// order, plus the Platt coefficients fitted for probability estimates.
type SVMModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	PlattA    float64   `json:"platt_a"`
	PlattB    float64   `json:"platt_b"`
}

// LoadArtifacts reads and cross-checks all artifact files from dir.
func LoadArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{}

	if err := readJSON(filepath.Join(dir, "model_columns.json"), &a.Columns); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "scaler.json"), &a.Scaler); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "data_info.json"), &a.Info); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "svm_model.json"), &a.Model); err != nil {
		return nil, err
	}

	if len(a.Columns) == 0 {
		return nil, fmt.Errorf("scoring: model_columns.json is empty")
	}
	if len(a.Model.Weights) != len(a.Columns) {
		return nil, fmt.Errorf("scoring: svm weights length %d does not match %d model columns",
			len(a.Model.Weights), len(a.Columns))
	}
	if len(a.Scaler.Columns) != len(a.Scaler.Mean) || len(a.Scaler.Columns) != len(a.Scaler.Std) {
		return nil, fmt.Errorf("scoring: scaler columns/mean/std lengths do not match")
	}
	for i, std := range a.Scaler.Std {
		if std == 0 {
			return nil, fmt.Errorf("scoring: scaler std for %q is zero", a.Scaler.Columns[i])
		}
	}
	if len(a.Info.EthnicityTop) == 0 || len(a.Info.CountryTop) == 0 {
		return nil, fmt.Errorf("scoring: data_info.json allow-lists are empty")
	}
	return a, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scoring: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("scoring: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
