package types

// RunReport summarizes a single processing pass.
type RunReport struct {
	Matched      []Match      // files matched to a series rule, in input order
	Unmatched    []string     // files no rule matched, in input order
	Moves        []MoveResult // every relocation attempted, series and movie alike
	Destinations []string     // distinct destination directories written to
}

// Succeeded returns the number of files actually moved.
func (r *RunReport) Succeeded() int {
	n := 0
	for _, m := range r.Moves {
		if m.Moved {
			n++
		}
	}
	return n
}

// Failed returns the number of relocation attempts that errored.
func (r *RunReport) Failed() int {
	n := 0
	for _, m := range r.Moves {
		if m.Error != nil {
			n++
		}
	}
	return n
}
