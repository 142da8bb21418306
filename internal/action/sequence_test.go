package action

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/multierr"
)

func TestSequenceRunsChildrenInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Action {
		return NewSequence(name, StopOnError, &orderedFake{node: newNode(name), order: &order, name: name})
	}
	seq := NewSequence("outer", StopOnError, mk("a"), mk("b"), mk("c"))

	if err := seq.Execute(context.Background(), NoValue); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, order[i], want[i])
		}
	}
}

type orderedFake struct {
	node
	order *[]string
	name  string
}

func (f *orderedFake) Execute(ctx context.Context, in Input) error {
	*f.order = append(*f.order, f.name)
	return nil
}

func TestSequenceStopOnError(t *testing.T) {
	first := newFake("first")
	second := newFailingFake("second")
	third := newFake("third")
	seq := NewSequence("seq", StopOnError, first, second, third)

	err := seq.Execute(context.Background(), NoValue)
	if err == nil {
		t.Fatal("expected error")
	}

	var ce *ChildError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a ChildError", err)
	}
	if ce.Index != 1 {
		t.Errorf("failing child index = %d, want 1", ce.Index)
	}
	if third.count() != 0 {
		t.Errorf("third ran %d times after stop-on-error, want 0", third.count())
	}
}

func TestSequenceContinueOnError(t *testing.T) {
	first := newFake("first")
	second := newFailingFake("second")
	third := newFake("third")
	seq := NewSequence("seq", ContinueOnError, first, second, third)

	err := seq.Execute(context.Background(), NoValue)
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	if third.count() != 1 {
		t.Errorf("third ran %d times under continue-on-error, want 1", third.count())
	}

	errs := multierr.Errors(err)
	if len(errs) != 1 {
		t.Fatalf("aggregate holds %d errors, want exactly 1", len(errs))
	}
	var ce *ChildError
	if !errors.As(errs[0], &ce) || ce.Index != 1 {
		t.Errorf("aggregate error %v does not identify child 1", errs[0])
	}
}

func TestSequenceContinueCollectsAllFailures(t *testing.T) {
	seq := NewSequence("seq", ContinueOnError,
		newFailingFake("a"), newFake("b"), newFailingFake("c"))

	err := seq.Execute(context.Background(), NoValue)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("aggregate holds %d errors, want 2", got)
	}
}

func TestSequenceAllSucceed(t *testing.T) {
	seq := NewSequence("seq", ContinueOnError, newFake("a"), newFake("b"))
	if err := seq.Execute(context.Background(), NoValue); err != nil {
		t.Errorf("Execute: %v", err)
	}
}
