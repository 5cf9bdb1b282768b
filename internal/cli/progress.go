package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ScanProgress renders a progress bar over the fetched message stream.
type ScanProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewScanProgress creates a progress renderer writing to w (stdout when nil).
func NewScanProgress(w io.Writer) *ScanProgress {
	if w == nil {
		w = os.Stdout
	}
	return &ScanProgress{writer: w}
}

// Update advances the bar, lazily initializing it once the total is known.
func (p *ScanProgress) Update(done, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Scanning mailbox...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
