// Package classify decides which configured series, if any, a filename
// belongs to. An unmatched file is a routing outcome, not an error: it
// is handed to the movie fallback path by the runner.
package classify

import (
	"copymedia/internal/log"
	"copymedia/pkg/types"
)

// Partition tests each filename against the rules in configured order
// and returns the (file, rule) matches plus the residue no rule matched.
// The first matching rule wins; input order is preserved within both
// partitions.
func Partition(files []string, rules []types.SeriesRule) ([]types.Match, []string) {
	var matches []types.Match
	var unmatched []string

	for _, f := range files {
		rule := First(f, rules)
		if rule != nil {
			matches = append(matches, types.Match{File: f, Rule: rule})
			log.Info("File [%s] matches series [%s]", f, rule.Name)
		} else {
			unmatched = append(unmatched, f)
		}
	}

	return matches, unmatched
}

// First returns the first rule whose pattern matches name, or nil.
func First(name string, rules []types.SeriesRule) *types.SeriesRule {
	for i := range rules {
		rule := &rules[i]
		log.Debugf("Checking [%s] against [%s] using pattern [%s]", name, rule.Name, rule.Regex)
		if rule.Matches(name) {
			return rule
		}
	}
	return nil
}
