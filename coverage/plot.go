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

package coverage

import (
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// Plot renders depth against 1-based position as a PNG line plot with a
// symmetric log depth axis.
func Plot(w io.Writer, title string, depths []int) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "position"
	p.Y.Label.Text = "depth"

	pts := make(plotter.XYs, len(depths))
	maxDepth := 0
	for i, d := range depths {
		pts[i] = plotter.XY{X: float64(i + 1), Y: float64(d)}
		if d > maxDepth {
			maxDepth = d
		}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "depth plot")
	}
	line.Width = vg.Points(1)
	p.Add(line)

	p.Y.Scale = SymLogScale{LinThresh: 1}
	p.Y.Tick.Marker = symLogTicks{}
	p.Y.Min = 0
	p.Y.Max = math.Max(float64(maxDepth), 1)

	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return errors.Wrap(err, "depth plot")
	}
	_, err = wt.WriteTo(w)
	return err
}

// SymLogScale is a plot.Normalizer that is linear within LinThresh of zero
// and logarithmic beyond it, so zero depth stays on the axis.
type SymLogScale struct {
	LinThresh float64
}

func (s SymLogScale) transform(x float64) float64 {
	t := s.LinThresh
	if t <= 0 {
		t = 1
	}
	return math.Copysign(math.Log10(1+math.Abs(x)/t), x)
}

// Normalize implements plot.Normalizer.
func (s SymLogScale) Normalize(min, max, x float64) float64 {
	lo, hi := s.transform(min), s.transform(max)
	if hi == lo {
		return 0.5
	}
	return (s.transform(x) - lo) / (hi - lo)
}

// symLogTicks places major ticks at zero and powers of ten.
type symLogTicks struct{}

// Ticks implements plot.Ticker.
func (symLogTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	if min <= 0 && max >= 0 {
		ticks = append(ticks, plot.Tick{Value: 0, Label: "0"})
	}
	for v := 1.0; v <= max; v *= 10 {
		if v >= min {
			ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
		}
	}
	return ticks
}
