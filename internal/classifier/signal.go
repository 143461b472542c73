// Package classifier consumes the disinformation classifier's inbound
// signal. The classifier pipeline itself runs elsewhere; each scanned
// message it flags carries a fixed textual marker with a decimal
// probability, and this package parses that marker and grades it against
// the policy thresholds.
package classifier

import (
	"regexp"
	"strconv"
)

var signalRe = regexp.MustCompile(`AUTO_FLAG DISINFO_PROB=([0-9]*\.[0-9]+)`)

// ParseSignal extracts the disinformation probability from a message.
// Messages without a well-formed marker report ok == false and are ignored
// by the caller; a malformed marker never creates a report.
func ParseSignal(content string) (prob float64, ok bool) {
	m := signalRe.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	p, err := strconv.ParseFloat(m[1], 64)
	if err != nil || p < 0 || p > 1 {
		return 0, false
	}
	return p, true
}

// Level grades a probability against the policy thresholds.
type Level int

const (
	LevelNone Level = iota
	LevelModerate
	LevelVeryHigh
)

// Thresholds holds the policy cut-offs for synthesizing automated reports.
type Thresholds struct {
	Moderate float64
	VeryHigh float64
}

// DefaultThresholds mirrors the shipped moderation policy.
var DefaultThresholds = Thresholds{Moderate: 0.6, VeryHigh: 0.9}

// Assess grades a probability. The very-high tier requires strictly
// exceeding its threshold; the moderate tier is inclusive.
func (t Thresholds) Assess(prob float64) Level {
	switch {
	case prob > t.VeryHigh:
		return LevelVeryHigh
	case prob >= t.Moderate:
		return LevelModerate
	}
	return LevelNone
}
