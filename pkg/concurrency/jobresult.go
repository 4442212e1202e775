package concurrency

import (
	"context"
	"sync"
)

// JobResult is the read side of an asynchronous stage result. The pipeline
// uses one per analysis backend so diarization and transcription can run
// concurrently and be joined at the merge point.
type JobResult[ResultType any] struct {
	result *ResultType
	err    error
	once   sync.Once
	done   chan struct{}
}

// WritableJobResult is the matched write side; only its holder can resolve
// the result, which prevents accidental double-completion elsewhere.
type WritableJobResult[ResultType any] struct {
	*JobResult[ResultType]
}

// NewJobResult returns a matched pair of JobResult and WritableJobResult.
func NewJobResult[ResultType any]() (*JobResult[ResultType], *WritableJobResult[ResultType]) {
	jr := &JobResult[ResultType]{done: make(chan struct{})}
	return jr, &WritableJobResult[ResultType]{JobResult: jr}
}

// Wait blocks until the result is resolved or the context expires.
func (jr *JobResult[ResultType]) Wait(ctx context.Context) (*ResultType, error) {
	select {
	case <-jr.done:
		if jr.err != nil {
			return nil, jr.err
		}
		return jr.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetResult resolves the job exactly once; later calls are no-ops.
func (wjr *WritableJobResult[ResultType]) SetResult(result ResultType, err error) {
	wjr.once.Do(func() {
		wjr.result = &result
		wjr.err = err
		close(wjr.done)
	})
}
