package scoring

import (
	"fmt"
	"math"
)

// Classifier scores one aligned feature vector. The production
// implementation evaluates the exported SVM artifact; tests stub it.
type Classifier interface {
	Predict(vector []float64) (class int, probs [2]float64, err error)
}

type linearSVM struct {
	weights   []float64
	intercept float64
	plattA    float64
	plattB    float64
}

func newLinearSVM(m SVMModel) *linearSVM {
	return &linearSVM{
		weights:   m.Weights,
		intercept: m.Intercept,
		plattA:    m.PlattA,
		plattB:    m.PlattB,
	}
}

// Predict evaluates the decision function and the Platt-scaled class
// probabilities. The class comes from the margin sign, matching the trained
// model's predict; the confidence read by callers is probs[class].
func (s *linearSVM) Predict(vector []float64) (int, [2]float64, error) {
	if len(vector) != len(s.weights) {
		return 0, [2]float64{}, fmt.Errorf("scoring: vector length %d does not match %d weights",
			len(vector), len(s.weights))
	}

	margin := s.intercept
	for i, w := range s.weights {
		margin += w * vector[i]
	}

	pPositive := 1.0 / (1.0 + math.Exp(s.plattA*margin+s.plattB))

	class := 0
	if margin > 0 {
		class = 1
	}
	return class, [2]float64{1 - pPositive, pPositive}, nil
}
