package layout

// Options configures a Formatter.
type Options struct {
	// Padding is added to every tickable's pre-format width.
	Padding float64
	// Spacing separates adjacent tick contexts.
	Spacing float64
	// AllowOverflow lays out at the minimum width instead of failing when
	// the target is too narrow.
	AllowOverflow bool
}

// DefaultOptions returns the formatter defaults.
func DefaultOptions() Options {
	return Options{Padding: 3, Spacing: 10}
}

// StaveOptions configures stave geometry.
type StaveOptions struct {
	LineSpacing float64
	NumLines    int
	// Headroom and Footroom are measured in line spacings.
	Headroom  float64
	Footroom  float64
	Padding   float64
	LineWidth float64
}

func DefaultStaveOptions() StaveOptions {
	return StaveOptions{
		LineSpacing: 10,
		NumLines:    5,
		Headroom:    4,
		Footroom:    4,
		Padding:     12,
		LineWidth:   1,
	}
}
