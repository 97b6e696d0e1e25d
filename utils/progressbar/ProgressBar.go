// Package progressbar implements functionality of printing a progress
// bar to a terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar is a progress bar that must be manually managed. Progress
// is advanced with Add, and the bar is only redrawn by Display.
//
// ProgressBar does not use concurrency.
type ProgressBar struct {
	out       io.Writer
	width     int
	max       int
	current   int
	startTime time.Time
}

// New returns a new ProgressBar which is width characters wide and
// reaches 100% after max steps of progress
func New(out io.Writer, width, max int) (*ProgressBar, error) {
	if width < 1 || max < 1 {
		return nil, fmt.Errorf("new: width and max must be positive "+
			"\n\twant(>0, >0) \n\thave(%v, %v)", width, max)
	}
	return &ProgressBar{
		out:       out,
		width:     width,
		max:       max,
		startTime: time.Now(),
	}, nil
}

// Add advances the progress by n steps, saturating at the maximum
func (p *ProgressBar) Add(n int) {
	p.current += n
	if p.current > p.max {
		p.current = p.max
	}
}

// Fraction returns the fraction of progress made so far
func (p *ProgressBar) Fraction() float64 {
	return float64(p.current) / float64(p.max)
}

// String returns the current state of the progress bar
func (p *ProgressBar) String() string {
	var bar strings.Builder
	filled := int(p.Fraction() * float64(p.width))

	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))
	bar.WriteString(fmt.Sprintf("| [%.2f%% | elapsed: %v]",
		p.Fraction()*100, time.Since(p.startTime).Truncate(time.Second)))
	return bar.String()
}

// Display redraws the progress bar over the current terminal line
func (p *ProgressBar) Display() {
	fmt.Fprintf(p.out, "\r\033[K%v", p)
}

// Close finishes the progress bar line
func (p *ProgressBar) Close() {
	fmt.Fprintln(p.out)
}
