package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
)

// BatchProgress shows how many texts of a batch have been processed.
type BatchProgress struct {
	bar *progressbar.ProgressBar
}

// NewBatchProgress creates a progress bar for total texts on writer.
func NewBatchProgress(writer io.Writer, total int, description string) *BatchProgress {
	p := &BatchProgress{}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Callback returns a progress function for extraction.ProcessBatchWithProgress.
func (p *BatchProgress) Callback() extraction.ProgressFunc {
	return func(done, _ int) {
		if err := p.bar.Set(done); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

// Finish completes the bar.
func (p *BatchProgress) Finish() {
	if p.bar.IsFinished() {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}

// IsFinished reports whether the bar reached its total.
func (p *BatchProgress) IsFinished() bool {
	return p.bar.IsFinished()
}
