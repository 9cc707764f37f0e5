package catalog

import (
	"strings"
)

// Segment is the market segment a plan is classified into
type Segment string

const (
	SegmentCommercial Segment = "Commercial"
	SegmentGCC        Segment = "GCC"
	SegmentGCCHigh    Segment = "GCC-High (non-government)"
)

// String returns the segment label
func (s Segment) String() string {
	return string(s)
}

// AnnualOnly reports whether the segment is only sold on annual billing
func (s Segment) AnnualOnly() bool {
	return s == SegmentGCCHigh
}

// Matches reports whether a raw segment cell refers to this segment.
// A blank cell matches every segment.
func (s Segment) Matches(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return true
	}
	if strings.EqualFold(cell, string(s)) {
		return true
	}
	resolved, ok := SegmentFor(cell)
	return ok && resolved == s
}

// segmentMarkers is checked in order: GCC-High markers contain "GCC" and must win.
var segmentMarkers = []struct {
	segment Segment
	markers []string
}{
	{SegmentGCCHigh, []string{"gcc-high", "gcc high", "gcc-h", "gcch"}},
	{SegmentGCC, []string{"gcc"}},
	{SegmentCommercial, []string{"commercial"}},
}

// SegmentFor classifies a plan name by substring markers.
// Returns false when the name carries no known marker.
func SegmentFor(plan string) (Segment, bool) {
	name := strings.ToLower(plan)
	for _, entry := range segmentMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(name, marker) {
				return entry.segment, true
			}
		}
	}
	return "", false
}

// BillingOptions returns the billing cycles offered for a segment
func BillingOptions(s Segment) []BillingCycle {
	if s.AnnualOnly() {
		return []BillingCycle{BillingAnnual}
	}
	return []BillingCycle{BillingMonthly, BillingAnnual}
}
