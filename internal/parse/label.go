package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	floorRe      = regexp.MustCompile(`(?i)\s*\bFL\s*(\d+)\s*$`)
)

// ParsedLabel holds the structured data parsed from a room label.
type ParsedLabel struct {
	Building string
	Floor    int
}

// ParseLabel splits a label such as "Prince Frederick FL7" into building and floor.
func ParseLabel(raw string) (ParsedLabel, error) {
	s := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	if s == "" {
		return ParsedLabel{}, fmt.Errorf("empty room label")
	}

	loc := floorRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return ParsedLabel{Building: s}, fmt.Errorf("unable to parse floor from label: %q", raw)
	}
	floor, err := strconv.Atoi(s[loc[2]:loc[3]])
	if err != nil {
		return ParsedLabel{Building: s}, fmt.Errorf("unable to parse floor from label %q: %w", raw, err)
	}
	return ParsedLabel{Building: strings.TrimSpace(s[:loc[0]]), Floor: floor}, nil
}

// Slug lower-cases label and collapses whitespace runs into underscores.
// An empty label yields fallback.
func Slug(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return whitespaceRe.ReplaceAllString(strings.ToLower(label), "_")
}

// DailySeries names the per-day snapshot series of a label, e.g. "prince_frederick_fl7_2025-09-01".
func DailySeries(label, fallback string, now time.Time) string {
	return Slug(label, fallback) + "_" + now.UTC().Format(time.DateOnly)
}
