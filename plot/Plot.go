// Package plot renders the action value function represented by a set
// of wires
package plot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/wirefit/wire"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// Colours used when rendering
var (
	background  = color.White
	axisColour  = color.Gray{Y: 128}
	curveColour = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	wireColour  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	bestColour  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Options determines how a value curve is rendered
type Options struct {
	Width   int
	Height  int
	Samples int         // Number of actions the curve is evaluated at
	Actions r1.Interval // Range of actions plotted
	Margin  float64     // Pixels between the plot and the image edges
}

// DefaultOptions returns the default Options for plotting actions in
// the given range
func DefaultOptions(actions r1.Interval) Options {
	return Options{
		Width:   640,
		Height:  480,
		Samples: 200,
		Actions: actions,
		Margin:  40,
	}
}

func (o Options) validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("image dimensions must be positive \n\thave(%v, %v)",
			o.Width, o.Height)
	}
	if o.Samples < 2 {
		return fmt.Errorf("at least two samples are needed \n\thave(%v)",
			o.Samples)
	}
	if !(o.Actions.Max > o.Actions.Min) {
		return fmt.Errorf("action range must be non-empty \n\thave(%v)",
			o.Actions)
	}
	if 2*o.Margin >= math.Min(float64(o.Width), float64(o.Height)) {
		return fmt.Errorf("margin too large \n\thave(%v)", o.Margin)
	}
	return nil
}

// Curve returns the actions in the plotted range and the interpolated
// value of each. The wires must have 1-dimensional actions.
func Curve(wires wire.Set, interpolator wire.Interpolator,
	opts Options) (actions, values []float64, err error) {
	if err := opts.validate(); err != nil {
		return nil, nil, fmt.Errorf("curve: %v", err)
	}
	if len(wires) == 0 {
		return nil, nil, fmt.Errorf("curve: no wires to plot")
	}
	for i := range wires {
		if len(wires[i].Action) != 1 {
			return nil, nil, fmt.Errorf("curve: only 1-dimensional actions "+
				"can be plotted \n\thave(%v)", len(wires[i].Action))
		}
	}

	actions = floats.Span(make([]float64, opts.Samples), opts.Actions.Min,
		opts.Actions.Max)
	values = make([]float64, len(actions))
	for i, a := range actions {
		values[i] = interpolator.Value(wires, []float64{a})
	}
	return actions, values, nil
}

// Render draws the value curve of the wires over the plotted action
// range, with a marker at each wire. The wire with the highest reward
// is marked in a different colour.
func Render(wires wire.Set, interpolator wire.Interpolator,
	opts Options) (image.Image, error) {
	actions, values, err := Curve(wires, interpolator, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %v", err)
	}

	// Vertical range covers the curve and every wire
	low := math.Min(floats.Min(values), floats.Min(wires.Rewards()))
	high := math.Max(floats.Max(values), floats.Max(wires.Rewards()))
	if high == low {
		low, high = low-1, high+1
	}

	w, h := float64(opts.Width), float64(opts.Height)
	m := opts.Margin
	toPixel := func(action, value float64) (float64, float64) {
		x := m + (action-opts.Actions.Min)/
			(opts.Actions.Max-opts.Actions.Min)*(w-2*m)
		y := h - m - (value-low)/(high-low)*(h-2*m)
		return x, y
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(background)
	dc.Clear()

	// Axes
	dc.SetColor(axisColour)
	dc.SetLineWidth(1.0)
	dc.DrawLine(m, h-m, w-m, h-m)
	dc.DrawLine(m, m, m, h-m)
	dc.Stroke()

	// Value curve
	dc.ClearPath()
	for i := range actions {
		dc.LineTo(toPixel(actions[i], values[i]))
	}
	dc.SetColor(curveColour)
	dc.SetLineWidth(2.0)
	dc.Stroke()

	// Wires
	best := wires.Best()
	for i, wr := range wires {
		if wr.Action[0] < opts.Actions.Min || wr.Action[0] > opts.Actions.Max {
			continue
		}
		x, y := toPixel(wr.Action[0], wr.Reward)
		dc.DrawCircle(x, y, 4)
		if i == best {
			dc.SetColor(bestColour)
		} else {
			dc.SetColor(wireColour)
		}
		dc.Fill()
	}

	return dc.Image(), nil
}

// SavePNG renders the value curve of the wires and saves it as a PNG
// image at path
func SavePNG(path string, wires wire.Set, interpolator wire.Interpolator,
	opts Options) error {
	img, err := Render(wires, interpolator, opts)
	if err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("savePNG: %w", err)
	}
	return nil
}
