// Package bar renders progress as a terminal progress bar.
package bar

import (
	"context"
	"io"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"github.com/xaionaro-go/noiseextract/pkg/progress"
)

type Bar struct {
	Output      io.Writer
	Description string

	locker    sync.Mutex
	container *mpb.Progress
	bar       *mpb.Bar
}

var _ progress.Progress = (*Bar)(nil)

func New(output io.Writer, description string) *Bar {
	return &Bar{
		Output:      output,
		Description: description,
	}
}

func (b *Bar) Begin(ctx context.Context, total int) {
	b.locker.Lock()
	defer b.locker.Unlock()
	// the bar is drawn even if the output is not a terminal
	b.container = mpb.NewWithContext(ctx,
		mpb.WithWidth(64),
		mpb.WithOutput(b.Output),
		mpb.WithAutoRefresh(),
	)
	b.bar = b.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(b.Description+": "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Name(" "),
			decor.AverageETA(decor.ET_STYLE_GO),
		),
	)
}

func (b *Bar) Step(_ context.Context, _ string, _ error) {
	b.locker.Lock()
	defer b.locker.Unlock()
	if b.bar == nil {
		return
	}
	b.bar.Increment()
}

func (b *Bar) End(_ context.Context) {
	b.locker.Lock()
	defer b.locker.Unlock()
	if b.container == nil {
		return
	}
	if !b.bar.Completed() {
		// the batch was interrupted, otherwise Wait would block forever
		b.bar.Abort(false)
	}
	b.container.Wait()
	b.container, b.bar = nil, nil
}
