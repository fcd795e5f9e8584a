package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Series describes one show to extract from a podcast feed.
//
// A feed often carries several shows at once, distinguished only by their
// episode title prefixes. Series pairs a display name with the pattern that
// recognizes the show's episodes and the capture group holding the episode
// number.
//
// Example:
//
//	s := model.Series{Name: "MAG", Pattern: `MAG (\d+)`}
//	matcher, _ := s.Matcher()
//	number, ok := matcher.Match("MAG 7: The Piper") // 7, true
type Series struct {
	// Name is the display name of the series, used for album tags,
	// playlist file names and progress output.
	Name string `json:"name"`

	// Pattern is a regular expression applied case-insensitively to
	// episode titles. It must contain at least one capture group.
	Pattern string `json:"pattern"`

	// Group is the 1-based index of the capture group holding the
	// episode number. Zero means group 1.
	Group int `json:"group,omitempty"`
}

// Matcher compiles the series pattern for episode number extraction.
//
// Returns an error if the pattern is empty, does not compile, or the
// configured capture group does not exist. Compilation always prepends
// case-insensitive matching, so `MAG (\d+)` matches "mag 5 bonus" too.
func (s Series) Matcher() (*SeriesMatcher, error) {
	if strings.TrimSpace(s.Pattern) == "" {
		return nil, fmt.Errorf("series %q: empty pattern", s.Name)
	}

	re, err := regexp.Compile("(?i)" + s.Pattern)
	if err != nil {
		return nil, fmt.Errorf("series %q: invalid pattern: %w", s.Name, err)
	}

	group := s.Group
	if group == 0 {
		group = 1
	}
	if group < 1 || group > re.NumSubexp() {
		return nil, fmt.Errorf("series %q: capture group %d out of range (pattern has %d groups)", s.Name, group, re.NumSubexp())
	}

	return &SeriesMatcher{series: s, re: re, group: group}, nil
}

// SeriesMatcher extracts episode numbers from titles using a compiled
// series pattern.
//
// A SeriesMatcher is safe for reuse across any number of titles.
type SeriesMatcher struct {
	series Series
	re     *regexp.Regexp
	group  int
}

// Series returns the series configuration the matcher was compiled from.
func (m *SeriesMatcher) Series() Series {
	return m.series
}

// Match applies the pattern to an episode title and parses the episode
// number from the configured capture group.
//
// Returns (number, true) when the title matches and the captured text is
// a valid non-negative base-10 integer. Any other case reports false:
// a title that does not match, an empty capture, non-numeric capture
// text, or a number too large to represent. Episodes that report false
// are excluded from parser output entirely.
//
// Example:
//
//	matcher.Match("MAG 101")     // 101, true
//	matcher.Match("mag 5 bonus") // 5, true
//	matcher.Match("MAG")         // 0, false
func (m *SeriesMatcher) Match(title string) (int, bool) {
	groups := m.re.FindStringSubmatch(title)
	if groups == nil {
		return 0, false
	}

	number, err := strconv.Atoi(groups[m.group])
	if err != nil || number < 0 {
		return 0, false
	}

	return number, true
}
