package ephemeris

import (
	"math"
	"time"
)

// unixEpochJD is the Julian day number of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

// JulianDay returns the Julian day (UT) of t.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	y, m, d := t.Date()
	a := (14 - int(m)) / 12
	yy := y + 4800 - a
	mm := int(m) + 12*a - 3
	jdn := d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045

	secs := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	return float64(jdn) + (secs-43200)/86400
}

// FromJulianDay converts a Julian day (UT) into a UTC instant, rounded to
// the millisecond.
func FromJulianDay(jd float64) time.Time {
	ms := math.Round((jd - unixEpochJD) * 86400e3)
	return time.UnixMilli(int64(ms)).UTC()
}
