package progress

import (
	"fmt"
	"io"

	"github.com/law-makers/boxdiff/pkg/models"
	"github.com/schollz/progressbar/v3"
)

// Bar renders snapshots as a terminal progress bar
type Bar struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	spinner bool
	last    models.ProgressSnapshot
}

// NewBar creates a bar that writes to out
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Run consumes snapshots until ch is closed
func (b *Bar) Run(ch <-chan models.ProgressSnapshot) {
	for snap := range ch {
		b.Update(snap)
	}
	b.Finish()
}

// Update redraws the bar for one snapshot. Indeterminate snapshots show a
// spinner; the first counted snapshot after one starts a fresh bar.
func (b *Bar) Update(snap models.ProgressSnapshot) {
	b.last = snap
	total := snap.TotalPages
	if total <= 0 {
		if b.bar == nil || !b.spinner {
			b.reset(-1)
		}
		b.bar.Describe(Describe(snap))
		return
	}

	if b.bar == nil || b.spinner {
		b.reset(total)
	}
	if b.bar.GetMax() != total {
		b.bar.ChangeMax(total)
	}
	b.bar.Describe(Describe(snap))
	_ = b.bar.Set(min(snap.CurrentPage, total))
}

func (b *Bar) reset(max int) {
	if b.bar != nil {
		_ = b.bar.Exit()
		_ = b.bar.Clear()
	}
	b.bar = b.newBar(max)
	b.spinner = max < 0
}

// Finish completes and clears the bar. Nothing is written to out after it
// returns.
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Exit()
	_ = b.bar.Clear()
	b.bar = nil
	fmt.Fprintln(b.out)
}

// Last returns the most recent snapshot rendered
func (b *Bar) Last() models.ProgressSnapshot {
	return b.last
}

func (b *Bar) newBar(max int) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		// Redraw only on updates; a ticking spinner would write from its own goroutine.
		progressbar.OptionSetSpinnerChangeInterval(0),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Describe renders the status line shown next to the bar
func Describe(snap models.ProgressSnapshot) string {
	if snap.TotalPages <= 0 {
		return snap.Message
	}
	return fmt.Sprintf("%s %3d%%", snap.Message, snap.Percent())
}
