// Package report summarizes the outcome of a publish run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dosanma1/docker-server/internal/config"
	"github.com/dosanma1/docker-server/internal/publish"
	"github.com/dosanma1/docker-server/internal/ui"
	"github.com/dosanma1/docker-server/pkg/xos"
)

// Report is the run summary. It is also the JSON report file format.
type Report struct {
	Version     string           `json:"version"`
	ReleaseType string           `json:"release_type"`
	Repo        string           `json:"repo"`
	Push        bool             `json:"push"`
	OS          []string         `json:"os"`
	Tags        []string         `json:"tags"`
	Results     []publish.Result `json:"results"`
}

// New creates a report for a run of cfg over tags.
func New(cfg *config.Config, tags []string, results []publish.Result) *Report {
	if results == nil {
		results = []publish.Result{}
	}
	return &Report{
		Version:     cfg.Version.String(),
		ReleaseType: string(cfg.ReleaseType),
		Repo:        cfg.ImageRepo,
		Push:        cfg.Push,
		OS:          cfg.OS,
		Tags:        tags,
		Results:     results,
	}
}

// Counts returns the number of OK and FAIL results.
func (r *Report) Counts() (ok, failed int) {
	for _, res := range r.Results {
		if res.Failed() {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}

// Failed reports whether any result is a failure.
func (r *Report) Failed() bool {
	_, failed := r.Counts()
	return failed > 0
}

// Render writes a human readable summary to w.
func (r *Report) Render(w io.Writer) error {
	s := ui.NewStyles(w)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Title.Render(fmt.Sprintf("Images for %s %s (%s)", r.Repo, r.Version, r.ReleaseType)))
	for _, res := range r.Results {
		status := s.Success.Render(fmt.Sprintf("%-4s", res.Status))
		if res.Failed() {
			status = s.Error.Render(fmt.Sprintf("%-4s", res.Status))
		}
		fmt.Fprintf(&b, "  %s  %s", status, res.Image)
		if res.Hint != "" {
			fmt.Fprintf(&b, "  %s", s.Help.Render(res.Hint))
		}
		b.WriteByte('\n')
	}

	ok, failed := r.Counts()
	fmt.Fprintf(&b, "%s %d OK, %d failed\n", s.Label.Render("Total:"), ok, failed)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile writes the report as JSON to path.
func (r *Report) WriteFile(path string) error {
	if err := xos.WriteJSON(path, r, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
