package render

import "github.com/gogpu/halo"

// Default indicator geometry in surface units.
const (
	DefaultRadius = 40
	DefaultMargin = 10
)

// Options controls what an Output draws.
type Options struct {
	// Radius of the indicator circle in surface units.
	Radius int

	// Margin added around the indicator when computing damage.
	Margin int

	// Indicator is the color blended under the pointer.
	Indicator halo.RGBA
}

// DefaultOptions returns the stock indicator configuration.
func DefaultOptions() Options {
	return Options{
		Radius:    DefaultRadius,
		Margin:    DefaultMargin,
		Indicator: halo.DefaultIndicator,
	}
}

// extent is the half-side of the damage square around the indicator.
func (o Options) extent() int {
	return o.Radius + o.Margin
}
