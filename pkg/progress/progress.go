package progress

import (
	"context"
)

// Progress receives one step per completed unit of work.
type Progress interface {
	Begin(ctx context.Context, total int)

	// Step is called after each unit of work; err is nil on success.
	Step(ctx context.Context, name string, err error)

	End(ctx context.Context)
}
