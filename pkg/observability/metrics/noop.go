package metrics

import (
	"context"
	"time"
)

// Noop satisfies every metrics interface in this package and records nothing.
type Noop struct{}

// NewNoop returns a metrics sink that discards everything.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (*Noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (*Noop) RecordOperationFailure(context.Context, string, string)                 {}
func (*Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (*Noop) RecordReconciliation(context.Context, string, int, int, int)            {}
func (*Noop) RecordConflictRetry(context.Context, string)                            {}
func (*Noop) RecordCacheHit(context.Context)                                         {}
func (*Noop) RecordCacheMiss(context.Context)                                        {}

var (
	_ OperationMetrics = (*Noop)(nil)
	_ ScoringMetrics   = (*Noop)(nil)
	_ StatsMetrics     = (*Noop)(nil)
)
