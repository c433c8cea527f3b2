package viz

import "fmt"

// Mode selects the visualization context a scale is built for. Each mode
// carries its own outlier trim: point markers tolerate a larger trim than
// region fills, which should keep most of the distribution visible.
type Mode string

const (
	ModeMarkers  Mode = "markers"
	ModeClusters Mode = "clusters"
	ModeRegions  Mode = "regions"
)

// Per-mode percentile trims (percent discarded from each tail)
const (
	trimMarkersPct  = 5.0
	trimClustersPct = 2.5
	trimRegionsPct  = 1.0
)

// Valid reports whether the mode is one of the known values
func (m Mode) Valid() bool {
	switch m {
	case ModeMarkers, ModeClusters, ModeRegions:
		return true
	}
	return false
}

// TrimPct returns the tail trim percentage for a visualization mode.
// Panics on an unknown mode: selection values come from the caller's
// enums, not from data.
func (m Mode) TrimPct() float64 {
	switch m {
	case ModeMarkers:
		return trimMarkersPct
	case ModeClusters:
		return trimClustersPct
	case ModeRegions:
		return trimRegionsPct
	}
	panic(fmt.Sprintf("viz: unknown visualization mode %q", m))
}
