package analyzer

// RuleName identifies diagnostics produced by this tool
const RuleName = "no-extraneous-dependencies"

// Diagnostic is one reported problem in a source file. Manifest failures are
// attached to line 1, column 0 and carry no package.
type Diagnostic struct {
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Package  string `json:"package,omitempty"`
}

// FileResult contains the outcome of analyzing a single file
type FileResult struct {
	FilePath    string       `json:"filePath"`
	Imports     int          `json:"imports"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Skipped is set when the file has no declared dependencies to check against
	Skipped bool `json:"skipped,omitempty"`
	// Error is set when the file could not be parsed
	Error string `json:"error,omitempty"`
}

// Summary aggregates results over a run
type Summary struct {
	Files       int `json:"files"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	Imports     int `json:"imports"`
	Diagnostics int `json:"diagnostics"`
}

// Summarize totals a set of results
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		s.Imports += r.Imports
		s.Diagnostics += len(r.Diagnostics)
		if r.Skipped {
			s.Skipped++
		}
		if r.Error != "" {
			s.Failed++
		}
	}
	return s
}
