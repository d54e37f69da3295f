package types

// MoveResult holds the outcome of a relocation attempt for a single file
type MoveResult struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Moved           bool   `json:"moved"`
	Error           error  `json:"error,omitempty"`
}
