package scoring

import (
	"context"
	"fmt"

	"github.com/screenline/screening-ai-platform/internal/screening"
	"github.com/screenline/screening-ai-platform/pkg/logging"
)

// othersCategory is the sentinel bucket for any categorical value outside
// the training allow-lists.
const othersCategory = "Others"

const (
	ethnicityColumnPrefix = "ethnicity_processed_"
	// The training dataset spells this column "contry_of_res".
	countryColumnPrefix = "contry_of_res_processed_"
)

// Pipeline implements screening.Scorer: it derives the aggregate feature,
// encodes the demographic context exactly the way the classifier was trained
// on, aligns the vector to the model's column order, rescales the continuous
// features and invokes the classifier once.
type Pipeline struct {
	artifacts  *Artifacts
	classifier Classifier
	logger     *logging.Logger
}

// NewPipeline creates a scoring pipeline over loaded artifacts.
func NewPipeline(artifacts *Artifacts, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		artifacts:  artifacts,
		classifier: newLinearSVM(artifacts.Model),
		logger:     logger,
	}
}

// Score is a pure function of its inputs: identical context and features
// always yield an identical prediction and confidence.
func (p *Pipeline) Score(_ context.Context, initial screening.InitialContext, features map[string]int) (screening.PredictionResult, error) {
	values := map[string]float64{
		"age":    float64(initial.Age),
		"gender": float64(initial.Gender),
	}

	aggregate := 0
	for key, value := range features {
		values[key] = float64(value)
		if screening.IsScreeningItem(key) {
			aggregate += value
		}
	}
	values["result"] = float64(aggregate)

	// The jaundice history item may be missing from states produced before
	// it was asked reliably; default to the population mode, never blank.
	if _, ok := features["jundice"]; !ok {
		values["jundice"] = float64(p.artifacts.Info.JaundiceMode)
	}

	ethnicity := collapseCategory(initial.Ethnicity, p.artifacts.Info.EthnicityTop)
	country := collapseCategory(initial.CountryOfResidence, p.artifacts.Info.CountryTop)
	values[ethnicityColumnPrefix+ethnicity] = 1
	values[countryColumnPrefix+country] = 1

	vector := p.align(values)
	if err := p.scale(vector); err != nil {
		return screening.PredictionResult{}, err
	}

	class, probs, err := p.classifier.Predict(vector)
	if err != nil {
		return screening.PredictionResult{}, err
	}

	result := screening.PredictionResult{
		Label:      class,
		Confidence: probs[class],
	}
	p.logger.Debug("scored screening session",
		"aggregate", aggregate,
		"ethnicity", ethnicity,
		"country", country,
		"prediction", result.Label,
		"confidence", result.Confidence,
	)
	return result, nil
}

// align reindexes the named values against the model's fixed column order.
// Columns never seen in this session (one-hot categories) are zero.
func (p *Pipeline) align(values map[string]float64) []float64 {
	vector := make([]float64, len(p.artifacts.Columns))
	for i, column := range p.artifacts.Columns {
		vector[i] = values[column]
	}
	return vector
}

// scale applies the fitted standard scaler to the continuous columns.
func (p *Pipeline) scale(vector []float64) error {
	for i, column := range p.artifacts.Scaler.Columns {
		idx := indexOf(p.artifacts.Columns, column)
		if idx < 0 {
			return fmt.Errorf("scoring: scaler column %q not in model columns", column)
		}
		vector[idx] = (vector[idx] - p.artifacts.Scaler.Mean[i]) / p.artifacts.Scaler.Std[i]
	}
	return nil
}

// collapseCategory maps any value outside the allow-list to the sentinel
// "Others" bucket, mirroring the training-time encoding.
func collapseCategory(value string, allow []string) string {
	for _, a := range allow {
		if a == value {
			return value
		}
	}
	return othersCategory
}

func indexOf(columns []string, column string) int {
	for i, c := range columns {
		if c == column {
			return i
		}
	}
	return -1
}
