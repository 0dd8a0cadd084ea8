package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"archivist/internal/report"
)

// progressReporter draws a bar once the archiver knows how many files it
// discovered.
type progressReporter struct {
	w           io.Writer
	description string
	bar         *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer, dryRun bool) *progressReporter {
	description := "archiving"
	if dryRun {
		description = "planning"
	}
	return &progressReporter{w: w, description: description}
}

func (p *progressReporter) update(done, total int, _ report.MoveOutcome) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(p.description),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
}

func (p *progressReporter) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
