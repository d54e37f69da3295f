package types

import (
	"fmt"
	"regexp"
)

// SeriesRule defines how files belonging to one TV series are recognized
// and where they end up. Rules are evaluated in configuration order and
// the first match wins, so more specific patterns should come first.
type SeriesRule struct {
	Name        string `yaml:"name"`                  // Display name, also the default destination folder
	Regex       string `yaml:"regex"`                 // Pattern matched against the bare filename, anchored at the start
	Replace     string `yaml:"replace,omitempty"`     // Optional substitution template applied with Regex (e.g. "$1.mkv")
	Destination string `yaml:"destination,omitempty"` // Optional destination folder overriding Name

	pattern *regexp.Regexp
}

// Compile validates and compiles the rule's pattern. It must be called
// once at configuration load time before Matches or Rename are used.
func (r *SeriesRule) Compile() error {
	if r.Regex == "" {
		return fmt.Errorf("empty pattern")
	}
	p, err := regexp.Compile(r.Regex)
	if err != nil {
		return err
	}
	r.pattern = p
	return nil
}

// Matches reports whether name matches the rule's pattern. The match is
// anchored at the start of the filename but not at the end.
func (r *SeriesRule) Matches(name string) bool {
	if r.pattern == nil {
		return false
	}
	loc := r.pattern.FindStringIndex(name)
	return loc != nil && loc[0] == 0
}

// Rename returns the destination filename for name. When the rule has a
// Replace template, the match pattern doubles as the substitution search
// expression; otherwise the name is returned unchanged.
func (r *SeriesRule) Rename(name string) string {
	if r.Replace == "" || r.pattern == nil {
		return name
	}
	return r.pattern.ReplaceAllString(name, r.Replace)
}

// Folder returns the leaf destination folder for this rule.
func (r *SeriesRule) Folder() string {
	if r.Destination != "" {
		return r.Destination
	}
	return r.Name
}
