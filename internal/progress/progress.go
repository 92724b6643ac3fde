// Package progress draws terminal progress for file parsing.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Bar reports per-file parse progress. A nil *Bar is a silent no-op.
type Bar struct {
	bar   *progressbar.ProgressBar
	out   io.Writer
	label string
}

// NewSpinner creates a spinner for discovery, when the file count is unknown.
func NewSpinner(label string) *Bar {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo is NewSpinner writing to w.
func NewSpinnerTo(w io.Writer, label string) *Bar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Bar{bar: bar, out: w, label: label}
}

// NewBar creates a bar over total files.
func NewBar(label string, total int) *Bar {
	return NewBarTo(os.Stderr, label, total)
}

// NewBarTo is NewBar writing to w.
func NewBarTo(w io.Writer, label string, total int) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Bar{bar: bar, out: w, label: label}
}

// Tick advances by one file. Safe for concurrent use.
func (b *Bar) Tick() {
	if b == nil {
		return
	}
	_ = b.bar.Add(1)
}

// Done clears the bar without leaving output.
func (b *Bar) Done() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
	_ = b.bar.Clear()
}

// Fail clears the bar and prints err under the label.
func (b *Bar) Fail(err error) {
	if b == nil {
		return
	}
	b.Done()
	fmt.Fprintf(b.out, "  %s failed: %v\n", b.label, err)
}
