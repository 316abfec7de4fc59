package ui

// FileStartMsg indicates a new source file has started processing
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// SweepPlanMsg carries the sampled plan for the current file: which
// transform was picked and which parameter is the variable axis
type SweepPlanMsg struct {
	FileIndex int
	Transform string
	Variable  string
}

// RenderProgressMsg reports sweep rendering progress for one file
type RenderProgressMsg struct {
	FileIndex int
	Done      int
	Total     int
}

// ValidatingMsg indicates rendering finished and distances are being
// measured for the current file
type ValidatingMsg struct {
	FileIndex int
}

// FileCompleteMsg indicates a file has finished, with its coefficient
// (NaN for a degenerate distance sequence) or its error
type FileCompleteMsg struct {
	FileIndex   int
	Transform   string
	Variable    string
	Coefficient float64
	Error       error
}

// AllCompleteMsg indicates the whole corpus has been processed
type AllCompleteMsg struct {
	Mean    float64
	Median  float64
	Summary bool // whether mean/median were computed
}
