// Package clock provides the microsecond time primitives shared by the book,
// series and session packages. Everything internal to the engine orders and
// buckets in microseconds; sources that hand us anything finer are truncated
// on the way in.
package clock

import "time"

// Instant is an absolute point in time, microseconds since the Unix epoch.
type Instant int64

// Duration is a non-negative microsecond span, used as a bucketing step.
type Duration int64

const (
	Microsecond Duration = 1
	Millisecond          = 1000 * Microsecond
	Second               = 1000 * Millisecond
	Minute               = 60 * Second
	Hour                 = 60 * Minute
	Day                  = 24 * Hour
)

// Now returns the current wall-clock instant, truncated to microseconds.
func Now() Instant {
	return FromTime(time.Now())
}

// FromTime truncates t to microsecond resolution.
func FromTime(t time.Time) Instant {
	return Instant(t.UnixMicro())
}

// Time converts back to a time.Time in UTC.
func (i Instant) Time() time.Time {
	return time.UnixMicro(int64(i)).UTC()
}

// Add advances i by d.
func (i Instant) Add(d Duration) Instant {
	return i + Instant(d)
}

// Sub returns the microsecond span between i and other (i - other).
func (i Instant) Sub(other Instant) Duration {
	return Duration(i - other)
}

// Before reports whether i strictly precedes other.
func (i Instant) Before(other Instant) bool {
	return i < other
}

// Divides reports whether d divides t exactly, i.e. t mod d == 0.
func (d Duration) Divides(t Instant) bool {
	if d <= 0 {
		return false
	}
	return int64(t)%int64(d) == 0
}

// Floor rounds t down to the nearest multiple of step. Negative instants
// floor towards negative infinity, matching Go's div-towards-zero semantics
// corrected for the sign.
func Floor(t Instant, step Duration) Instant {
	if step <= 0 {
		return t
	}
	r := int64(t) % int64(step)
	if r < 0 {
		r += int64(step)
	}
	return t - Instant(r)
}

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start Instant
	End   Instant
}

// Empty reports whether the range contains no instants.
func (r TimeRange) Empty() bool {
	return r.Start >= r.End
}

// Contains reports whether t falls within [Start, End).
func (r TimeRange) Contains(t Instant) bool {
	return t >= r.Start && t < r.End
}

// Aligned returns r with Start floored to step; End is left untouched since
// the half-open end does not itself need to land on a bucket boundary.
func (r TimeRange) Aligned(step Duration) TimeRange {
	return TimeRange{Start: Floor(r.Start, step), End: r.End}
}

// Buckets returns the number of step-sized buckets covering the aligned
// range, i.e. floor((End - floor(Start, step)) / step).
func (r TimeRange) Buckets(step Duration) int64 {
	if step <= 0 {
		return 0
	}
	aligned := r.Aligned(step)
	span := int64(aligned.End - aligned.Start)
	if span <= 0 {
		return 0
	}
	return span / int64(step)
}
