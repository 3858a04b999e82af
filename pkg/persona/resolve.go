package persona

import (
	"regexp"
	"strings"
)

const (
	// MarkerPrefix opens the hidden persona directive.
	MarkerPrefix = "<<AGENT_CONVERSATIONS:"
	// MarkerSuffix closes the hidden persona directive.
	MarkerSuffix = ">>"
)

var (
	mentionPattern = regexp.MustCompile(`@(?:\[|<)?([A-Za-z]+)(?:\]|>)?`)
	markerPattern  = regexp.MustCompile(`<<AGENT_CONVERSATIONS:([^>]+)>>`)

	// markerStripPattern also consumes the newlines directly before the
	// marker so the augmented blank separator disappears with it.
	markerStripPattern = regexp.MustCompile(`\n*<<AGENT_CONVERSATIONS:[^>]+>>`)
)

// Resolve returns the personas requested by text. The marker directive takes
// precedence when it contains at least one valid persona; otherwise @-mentions
// are scanned. A nil Set means no persona was requested.
func Resolve(text string) Set {
	if set := FromMarker(text); len(set) > 0 {
		return set
	}
	if set := Mentions(text); len(set) > 0 {
		return set
	}
	return nil
}

// Mentions scans text for @Name, @[Name] and @<Name> mentions.
func Mentions(text string) Set {
	var set Set
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if p, ok := Normalize(match[1]); ok {
			set = set.add(p)
		}
	}
	return set
}

// FromMarker parses the first marker directive in text.
func FromMarker(text string) Set {
	match := markerPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return NewSet(strings.Split(match[1], ",")...)
}

// HasMarker reports whether text carries a marker directive.
func HasMarker(text string) bool {
	return markerPattern.MatchString(text)
}

// Marker encodes set as a hidden directive. It returns "" for an empty set.
func Marker(set Set) string {
	if set.Empty() {
		return ""
	}
	return MarkerPrefix + set.String() + MarkerSuffix
}

// StripMarker removes every marker directive, together with the blank lines
// immediately preceding it.
func StripMarker(text string) string {
	return markerStripPattern.ReplaceAllString(text, "")
}
