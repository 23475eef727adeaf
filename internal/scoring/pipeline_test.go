package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenline/screening-ai-platform/internal/screening"
	"github.com/screenline/screening-ai-platform/pkg/logging"
)

// captureClassifier records the vectors it is asked to score.
type captureClassifier struct {
	vectors [][]float64
	class   int
	probs   [2]float64
}

func (c *captureClassifier) Predict(vector []float64) (int, [2]float64, error) {
	copied := make([]float64, len(vector))
	copy(copied, vector)
	c.vectors = append(c.vectors, copied)
	return c.class, c.probs, nil
}

func testArtifacts() *Artifacts {
	columns := []string{
		"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10",
		"age", "gender", "jundice", "austim", "result",
		"ethnicity_processed_Asian", "ethnicity_processed_Others",
		"contry_of_res_processed_Others", "contry_of_res_processed_United States",
	}
	return &Artifacts{
		Columns: columns,
		Scaler: Scaler{
			Columns: []string{"age", "result"},
			Mean:    []float64{30, 5},
			Std:     []float64{10, 2.5},
		},
		Info: DataInfo{
			EthnicityTop: []string{"Asian", "White-European"},
			CountryTop:   []string{"United States"},
			JaundiceMode: 0,
		},
		Model: SVMModel{
			Weights: make([]float64, len(columns)),
			PlattA:  -1,
		},
	}
}

func newCapturePipeline(artifacts *Artifacts, capture *captureClassifier) *Pipeline {
	p := NewPipeline(artifacts, logging.New("error"))
	p.classifier = capture
	return p
}

func fullFeatures(value int) map[string]int {
	features := map[string]int{}
	for _, key := range screening.MasterKeys() {
		features[key] = value
	}
	return features
}

func columnValue(t *testing.T, artifacts *Artifacts, vector []float64, column string) float64 {
	t.Helper()
	idx := indexOf(artifacts.Columns, column)
	require.GreaterOrEqual(t, idx, 0, "column %s missing from artifacts", column)
	return vector[idx]
}

func TestPipelineVectorConstruction(t *testing.T) {
	artifacts := testArtifacts()
	capture := &captureClassifier{class: 1, probs: [2]float64{0.2, 0.8}}
	pipeline := newCapturePipeline(artifacts, capture)

	initial := screening.InitialContext{
		Age:                40,
		Gender:             1,
		Ethnicity:          "Asian",
		CountryOfResidence: "United States",
	}

	result, err := pipeline.Score(context.Background(), initial, fullFeatures(1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Label)
	assert.InDelta(t, 0.8, result.Confidence, 1e-12)

	require.Len(t, capture.vectors, 1)
	vector := capture.vectors[0]

	for _, key := range []string{"A1", "A5", "A10", "jundice", "austim"} {
		assert.Equal(t, 1.0, columnValue(t, artifacts, vector, key), key)
	}
	assert.Equal(t, 1.0, columnValue(t, artifacts, vector, "gender"))
	// age and result pass through the fitted scaler: (40-30)/10 and (10-5)/2.5.
	assert.InDelta(t, 1.0, columnValue(t, artifacts, vector, "age"), 1e-12)
	assert.InDelta(t, 2.0, columnValue(t, artifacts, vector, "result"), 1e-12)
	assert.Equal(t, 1.0, columnValue(t, artifacts, vector, "ethnicity_processed_Asian"))
	assert.Equal(t, 0.0, columnValue(t, artifacts, vector, "ethnicity_processed_Others"))
	assert.Equal(t, 1.0, columnValue(t, artifacts, vector, "contry_of_res_processed_United States"))
	assert.Equal(t, 0.0, columnValue(t, artifacts, vector, "contry_of_res_processed_Others"))
}

func TestPipelineZeroAggregate(t *testing.T) {
	artifacts := testArtifacts()
	capture := &captureClassifier{probs: [2]float64{0.9, 0.1}}
	pipeline := newCapturePipeline(artifacts, capture)

	initial := screening.InitialContext{Age: 30, Gender: 0, Ethnicity: "Asian", CountryOfResidence: "United States"}
	_, err := pipeline.Score(context.Background(), initial, fullFeatures(0))
	require.NoError(t, err)

	vector := capture.vectors[0]
	// aggregate 0 scales to (0-5)/2.5; age at the mean scales to zero.
	assert.InDelta(t, -2.0, columnValue(t, artifacts, vector, "result"), 1e-12)
	assert.InDelta(t, 0.0, columnValue(t, artifacts, vector, "age"), 1e-12)
}

func TestPipelineCollapsesUnknownCategories(t *testing.T) {
	artifacts := testArtifacts()
	capture := &captureClassifier{probs: [2]float64{0.5, 0.5}}
	pipeline := newCapturePipeline(artifacts, capture)

	unknown := screening.InitialContext{
		Age:                25,
		Gender:             0,
		Ethnicity:          "Kurdish",
		CountryOfResidence: "Narnia",
	}
	_, err := pipeline.Score(context.Background(), unknown, fullFeatures(1))
	require.NoError(t, err)

	literal := unknown
	literal.Ethnicity = "Others"
	literal.CountryOfResidence = "Others"
	_, err = pipeline.Score(context.Background(), literal, fullFeatures(1))
	require.NoError(t, err)

	require.Len(t, capture.vectors, 2)
	assert.Equal(t, 1.0, columnValue(t, artifacts, capture.vectors[0], "ethnicity_processed_Others"))
	assert.Equal(t, 0.0, columnValue(t, artifacts, capture.vectors[0], "ethnicity_processed_Asian"))
	assert.Equal(t, 1.0, columnValue(t, artifacts, capture.vectors[0], "contry_of_res_processed_Others"))
	assert.Equal(t, capture.vectors[0], capture.vectors[1],
		"out-of-list values and the literal sentinel must encode identically")
}

func TestPipelineJaundiceDefault(t *testing.T) {
	artifacts := testArtifacts()
	artifacts.Info.JaundiceMode = 1
	capture := &captureClassifier{probs: [2]float64{0.5, 0.5}}
	pipeline := newCapturePipeline(artifacts, capture)

	features := fullFeatures(0)
	delete(features, "jundice")

	initial := screening.InitialContext{Age: 30, Gender: 0, Ethnicity: "Asian", CountryOfResidence: "United States"}
	_, err := pipeline.Score(context.Background(), initial, features)
	require.NoError(t, err)

	assert.Equal(t, 1.0, columnValue(t, artifacts, capture.vectors[0], "jundice"),
		"missing jaundice history falls back to the population mode")
}

func TestPipelineConfidenceTracksPredictedClass(t *testing.T) {
	artifacts := testArtifacts()
	initial := screening.InitialContext{Age: 30, Gender: 0, Ethnicity: "Asian", CountryOfResidence: "United States"}

	negative := newCapturePipeline(artifacts, &captureClassifier{class: 0, probs: [2]float64{0.8, 0.2}})
	result, err := negative.Score(context.Background(), initial, fullFeatures(0))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Label)
	assert.InDelta(t, 0.8, result.Confidence, 1e-12)

	positive := newCapturePipeline(artifacts, &captureClassifier{class: 1, probs: [2]float64{0.3, 0.7}})
	result, err = positive.Score(context.Background(), initial, fullFeatures(1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Label)
	assert.InDelta(t, 0.7, result.Confidence, 1e-12)
}

func TestPipelineDeterministic(t *testing.T) {
	pipeline := NewPipeline(testArtifacts(), logging.New("error"))

	initial := screening.InitialContext{Age: 33, Gender: 1, Ethnicity: "Turkish", CountryOfResidence: "India"}
	features := fullFeatures(1)

	first, err := pipeline.Score(context.Background(), initial, features)
	require.NoError(t, err)
	second, err := pipeline.Score(context.Background(), initial, features)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
