package stage

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// FPS is the rate Step is expected to be called at while a fold is moving.
const FPS = 60

const (
	indicatorCollapsed = "▼"
	indicatorExpanded  = "▲"

	settle = 0.01
)

// Fold is the collapse state of one block. Its visible height moves between
// zero and the natural height of the content. The natural height is unknown
// until the block has been laid out once, so an expanded fold shows
// everything until Measure is called.
type Fold struct {
	collapsed bool
	measured  bool
	natural   int

	height    float64
	velocity  float64
	animating bool
	spring    harmonica.Spring
}

func NewFold(collapsed bool) *Fold {
	return &Fold{
		collapsed: collapsed,
		spring:    harmonica.NewSpring(harmonica.FPS(FPS), 8.0, 1.0),
	}
}

func (f *Fold) Collapsed() bool { return f.collapsed }

func (f *Fold) Measured() bool { return f.measured }

func (f *Fold) Animating() bool { return f.animating }

func (f *Fold) Indicator() string {
	if f.collapsed {
		return indicatorCollapsed
	}
	return indicatorExpanded
}

// Measure records the natural height of the content in lines.
func (f *Fold) Measure(natural int) {
	f.natural = max(natural, 0)

	if !f.measured {
		f.measured = true
		f.height = f.target()
		return
	}

	if !f.animating {
		f.height = f.target()
	}
}

// Toggle flips the fold and starts the transition towards the new height.
func (f *Fold) Toggle() {
	f.collapsed = !f.collapsed

	if !f.measured {
		// Nothing to animate from yet
		return
	}

	f.animating = true
}

// Step advances the transition by one frame and reports whether it is still
// moving.
func (f *Fold) Step() bool {
	if !f.animating {
		return false
	}

	target := f.target()
	f.height, f.velocity = f.spring.Update(f.height, f.velocity, target)

	if math.Abs(f.height-target) < settle && math.Abs(f.velocity) < settle {
		f.height = target
		f.velocity = 0
		f.animating = false
	}

	return f.animating
}

// Visible returns how many lines of content to show; -1 means all of it.
func (f *Fold) Visible() int {
	if !f.measured {
		if f.collapsed {
			return 0
		}
		return -1
	}

	lines := int(math.Round(f.height))
	return min(max(lines, 0), f.natural)
}

func (f *Fold) target() float64 {
	if f.collapsed {
		return 0
	}
	return float64(f.natural)
}
