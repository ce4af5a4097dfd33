// Package evaluator provides the concrete value generators a network's nodes
// are built from: conditional distributions for stochastic nodes and
// deterministic time features for temporal nodes.
package evaluator

import (
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/dbnsim/internal/models"
)

// LinearGaussian is a linear-Gaussian conditional distribution:
//
//	value = intercept + sum(weight[parent] * parents[parent]) + Normal(0, noiseStd)
//
// Parents absent from the weight map contribute with weight zero, so a weight
// of exactly 0 and an unlisted parent are behaviorally identical. With an
// empty weight map the distribution reduces to intercept plus noise, and with
// zero noise it is fully deterministic.
type LinearGaussian struct {
	weights   map[models.Parent]float64
	intercept float64
	noiseStd  float64
}

// NewLinearGaussian builds a linear-Gaussian distribution. The weight map is
// copied; a negative noise standard deviation is a configuration error.
func NewLinearGaussian(weights map[models.Parent]float64, intercept, noiseStd float64) (*LinearGaussian, error) {
	if noiseStd < 0 {
		return nil, fmt.Errorf("%w: noise standard deviation must be non-negative, got %g", models.ErrInvalidNode, noiseStd)
	}
	w := make(map[models.Parent]float64, len(weights))
	for k, v := range weights {
		w[k] = v
	}
	return &LinearGaussian{weights: w, intercept: intercept, noiseStd: noiseStd}, nil
}

// Evaluate draws one sample. rng may be nil only when the configured noise is
// zero; the sampler always threads a seeded source through.
func (lg *LinearGaussian) Evaluate(parents map[models.Parent]float64, rng *rand.Rand) float64 {
	mean := lg.intercept
	for ref, value := range parents {
		mean += lg.weights[ref] * value
	}
	if lg.noiseStd == 0 {
		return mean
	}
	return mean + rng.NormFloat64()*lg.noiseStd
}
