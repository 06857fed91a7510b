// Package moonphase computes the lunar phase for a given instant using
// mean synodic-month arithmetic. Accuracy is within a few hours of the
// astronomical phase, which is sufficient for mood correlation.
package moonphase

import (
	"math"
	"time"
)

// SynodicMonth is the mean length of a lunation.
var SynodicMonth = time.Duration(29.530588853 * 24 * float64(time.Hour))

// referenceNewMoon is the new moon of 2000-01-06 18:14 UTC, the epoch all
// phase fractions are measured from.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// Phase is one of the eight named lunar phases.
type Phase int

const (
	NewMoon Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

var phaseNames = map[Phase]string{
	NewMoon:        "New Moon",
	WaxingCrescent: "Waxing Crescent",
	FirstQuarter:   "First Quarter",
	WaxingGibbous:  "Waxing Gibbous",
	FullMoon:       "Full Moon",
	WaningGibbous:  "Waning Gibbous",
	LastQuarter:    "Last Quarter",
	WaningCrescent: "Waning Crescent",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Fraction returns the position within the lunation for t, in [0, 1).
// 0 is a new moon, 0.5 a full moon.
func Fraction(t time.Time) float64 {
	elapsed := t.Sub(referenceNewMoon)
	f := float64(elapsed%SynodicMonth) / float64(SynodicMonth)
	if f < 0 {
		f += 1
	}
	return f
}

// At returns the named phase for t. The cycle is split into eight equal
// slices centered on the four principal phases.
func At(t time.Time) Phase {
	f := Fraction(t)
	// Shift by half a slice so each principal phase owns the slice
	// centered on it.
	idx := int((f + 1.0/16) * 8)
	return Phase(idx % 8)
}

// Illumination approximates the illuminated portion of the lunar disc for t,
// in [0, 1]. 0 at new moon, 1 at full moon.
func Illumination(t time.Time) float64 {
	return (1 - math.Cos(2*math.Pi*Fraction(t))) / 2
}
