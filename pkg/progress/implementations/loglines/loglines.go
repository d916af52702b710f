// Package loglines reports progress as log lines; useful when the output
// is not a terminal.
package loglines

import (
	"context"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/noiseextract/pkg/progress"
)

type Logger struct {
	locker sync.Mutex
	total  int
	done   int
	failed int
}

var _ progress.Progress = (*Logger)(nil)

func New() *Logger {
	return &Logger{}
}

func (l *Logger) Begin(ctx context.Context, total int) {
	l.locker.Lock()
	defer l.locker.Unlock()
	l.total, l.done, l.failed = total, 0, 0
	logger.Infof(ctx, "processing %d file pairs", total)
}

func (l *Logger) Step(ctx context.Context, name string, err error) {
	l.locker.Lock()
	defer l.locker.Unlock()
	l.done++
	if err != nil {
		l.failed++
		logger.Infof(ctx, "[%d/%d] %s: failed", l.done, l.total, name)
		return
	}
	logger.Infof(ctx, "[%d/%d] %s: done", l.done, l.total, name)
}

func (l *Logger) End(ctx context.Context) {
	l.locker.Lock()
	defer l.locker.Unlock()
	logger.Infof(ctx, "processed %d of %d file pairs, %d failed", l.done, l.total, l.failed)
}
