// ABOUTME: TTL policy tied to the duty rotation schedule
// ABOUTME: Cache entries expire at the boundary hour when duty pharmacies change

package rotation

import "time"

const (
	// DefaultBoundaryHour is the local hour at which the duty list rotates.
	DefaultBoundaryHour = 9

	// boundarySecond pushes the target one second past the boundary so a
	// refresh at exactly the boundary sees the new rotation.
	boundarySecond = 1
)

// Policy computes cache lifetimes that expire at the duty rotation boundary.
type Policy struct {
	// BoundaryHour is the local wall-clock hour of the rotation (0-23).
	BoundaryHour int

	// Location resolves local wall-clock time. Nil means time.Local.
	Location *time.Location
}

// NewPolicy creates a policy for the given boundary hour. Hours outside
// 0-23 fall back to DefaultBoundaryHour.
func NewPolicy(boundaryHour int, loc *time.Location) *Policy {
	if boundaryHour < 0 || boundaryHour > 23 {
		boundaryHour = DefaultBoundaryHour
	}
	return &Policy{BoundaryHour: boundaryHour, Location: loc}
}

// Until returns the duration from now until the rotation boundary on the
// day daysAhead days in the future. The result is always strictly positive.
func (p *Policy) Until(now time.Time, daysAhead int) time.Duration {
	if daysAhead < 1 {
		daysAhead = 1
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)

	target := time.Date(
		local.Year(), local.Month(), local.Day()+daysAhead,
		p.BoundaryHour, 0, boundarySecond, 0, loc,
	)

	diff := target.Sub(now)
	if diff <= 0 {
		diff = target.AddDate(0, 0, 1).Sub(now)
	}
	return diff
}

// Daily returns the TTL for per-day duty data: until tomorrow's boundary.
func (p *Policy) Daily() time.Duration {
	return p.Until(time.Now(), 1)
}

// Weekly returns the TTL for slow-moving aggregate data, refreshed on the
// boundary a week out.
func (p *Policy) Weekly() time.Duration {
	return p.Until(time.Now(), 7)
}
