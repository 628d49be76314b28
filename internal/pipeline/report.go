package pipeline

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// ChapterResult is one chapter's outcome in the run report.
type ChapterResult struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Status Status `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report summarizes one pipeline run. Failures are data here, not alternate
// terminal states: a run that reaches the end always produces a Report.
type Report struct {
	Book       string          `json:"book"`
	OutputDir  string          `json:"output_dir"`
	Chapters   []ChapterResult `json:"chapters"`
	Created    int             `json:"created"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
	Merged     bool            `json:"merged"`
	MergedPath string          `json:"merged_path,omitempty"`
	MergeError string          `json:"merge_error,omitempty"`
}

// Summary renders a one-line human summary of the run.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%s: %d created, %d skipped, %d failed", r.Book, r.Created, r.Skipped, r.Failed)
	switch {
	case r.Merged:
		s += ", merged"
	case r.MergeError != "":
		s += ", merge failed"
	}
	return s
}

// WriteFile writes the report as indented JSON to path.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pipeline: write report: %w", err)
	}
	return nil
}
