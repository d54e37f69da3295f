package types

// Match pairs an input filename with the series rule it matched.
// It is produced by the classifier and consumed by the relocation
// engine and the notifier within a single run.
type Match struct {
	File string
	Rule *SeriesRule
}
