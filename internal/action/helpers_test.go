package action

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// fakeAction records its executions and optionally fails.
type fakeAction struct {
	node
	mu     sync.Mutex
	calls  int32
	inputs []Input
	err    error
}

func newFake(desc string) *fakeAction {
	return &fakeAction{node: newNode(desc)}
}

func newFailingFake(desc string) *fakeAction {
	return &fakeAction{node: newNode(desc), err: errors.New(desc + " boom")}
}

func (f *fakeAction) Execute(ctx context.Context, in Input) error {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	return f.err
}

func (f *fakeAction) count() int {
	return int(atomic.LoadInt32(&f.calls))
}
