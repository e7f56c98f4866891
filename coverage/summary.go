// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package coverage computes per-position read depth over an assembly and
// summarizes its distribution.
package coverage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"gonum.org/v1/gonum/floats"
)

// Quantiles lists the depth quantiles reported by Summarize, in order.
var Quantiles = []float64{.01, .05, .1, .25, .5, .75}

// Threshold is a labelled minimum depth. Label names the threshold in output
// keys; Min is the depth a position must reach to be counted.
type Threshold struct {
	Label int
	Min   int
}

// Key returns the output key for the threshold, e.g. "depth_frac_above_10x".
func (t Threshold) Key() string {
	return fmt.Sprintf("depth_frac_above_%dx", t.Label)
}

var (
	// DefaultThresholds counts each labelled threshold at its own depth.
	DefaultThresholds = []Threshold{{10, 10}, {25, 25}, {50, 50}, {100, 100}}

	// LegacyThresholds reproduces the historical output of the pipeline, where
	// both the 25x and the 50x fractions were computed at a depth of 30.
	LegacyThresholds = []Threshold{{10, 10}, {25, 30}, {50, 30}, {100, 100}}
)

// QuantileValue is a depth quantile.
type QuantileValue struct {
	Q     float64
	Value float64
}

// Key returns the output key for the quantile, e.g. "depth_q.05".
func (q QuantileValue) Key() string {
	return "depth_q" + strings.TrimPrefix(strconv.FormatFloat(q.Q, 'f', -1, 64), "0")
}

// Fraction is the fraction of positions whose depth reaches Threshold.Min.
type Fraction struct {
	Threshold
	Value float64
}

// Stats summarizes a depth array.
type Stats struct {
	Mean      float64
	Quantiles []QuantileValue
	Fractions []Fraction
}

// Summarize computes the mean, the quantiles listed in Quantiles, and the
// fraction of positions at or above each threshold. depths is not modified.
//
// Quantiles interpolate linearly between order statistics: for quantile q
// over n values the rank is q*(n-1).
func Summarize(depths []int, thresholds []Threshold) (Stats, error) {
	n := len(depths)
	if n == 0 {
		return Stats{}, errors.E(errors.Invalid, "coverage: empty depth array")
	}
	sorted := make([]float64, n)
	for i, d := range depths {
		if d < 0 {
			return Stats{}, errors.E(errors.Invalid, fmt.Sprintf("coverage: negative depth %d at position %d", d, i+1))
		}
		sorted[i] = float64(d)
	}
	stats := Stats{Mean: floats.Sum(sorted) / float64(n)}
	sort.Float64s(sorted)
	for _, q := range Quantiles {
		stats.Quantiles = append(stats.Quantiles, QuantileValue{Q: q, Value: quantile(sorted, q)})
	}
	for _, t := range thresholds {
		// sorted is ascending, so the first index reaching t.Min splits the array.
		i := sort.SearchFloat64s(sorted, float64(t.Min))
		stats.Fractions = append(stats.Fractions, Fraction{
			Threshold: t,
			Value:     float64(n-i) / float64(n),
		})
	}
	return stats, nil
}

// quantile returns the q-th quantile of the ascending, non-empty slice sorted.
func quantile(sorted []float64, q float64) float64 {
	rank := q * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
