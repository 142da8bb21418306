package action

import (
	"context"
	"testing"

	"go.uber.org/multierr"
)

func TestRelativeIncrease(t *testing.T) {
	inc := newFake("inc")
	dec := newFake("dec")
	r := NewRelativeAction("enc", inc, dec)

	if err := r.Execute(context.Background(), WithValue(66)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if inc.count() != 2 || dec.count() != 0 {
		t.Errorf("value 66: inc=%d dec=%d, want 2 and 0", inc.count(), dec.count())
	}
}

func TestRelativeDecrease(t *testing.T) {
	inc := newFake("inc")
	dec := newFake("dec")
	r := NewRelativeAction("enc", inc, dec)

	if err := r.Execute(context.Background(), WithValue(61)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if dec.count() != 3 || inc.count() != 0 {
		t.Errorf("value 61: inc=%d dec=%d, want 0 and 3", inc.count(), dec.count())
	}
}

func TestRelativeRestAndZero(t *testing.T) {
	inc := newFake("inc")
	dec := newFake("dec")
	r := NewRelativeAction("enc", inc, dec)

	for _, v := range []uint8{64, 0} {
		if err := r.Execute(context.Background(), WithValue(v)); err != nil {
			t.Fatalf("Execute(%d): %v", v, err)
		}
	}
	if inc.count() != 0 || dec.count() != 0 {
		t.Errorf("rest values moved the encoder: inc=%d dec=%d", inc.count(), dec.count())
	}
}

func TestRelativeExtremes(t *testing.T) {
	inc := newFake("inc")
	dec := newFake("dec")
	r := NewRelativeAction("enc", inc, dec)

	if err := r.Execute(context.Background(), WithValue(127)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if inc.count() != 63 {
		t.Errorf("value 127: inc=%d, want 63", inc.count())
	}

	if err := r.Execute(context.Background(), WithValue(1)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if dec.count() != 63 {
		t.Errorf("value 1: dec=%d, want 63", dec.count())
	}
}

func TestRelativeNoValueIsNoop(t *testing.T) {
	inc := newFake("inc")
	r := NewRelativeAction("enc", inc, newFake("dec"))
	if err := r.Execute(context.Background(), NoValue); err != nil {
		t.Errorf("no value must be a no-op, got %v", err)
	}
	if inc.count() != 0 {
		t.Errorf("inc ran %d times without a value", inc.count())
	}
}

// A failing repetition does not stop the remaining ones; all failures come
// back as one aggregate.
func TestRelativeRepetitionFailuresAggregate(t *testing.T) {
	inc := newFailingFake("inc")
	r := NewRelativeAction("enc", inc, newFake("dec"))

	err := r.Execute(context.Background(), WithValue(67)) // 3 steps
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	if inc.count() != 3 {
		t.Errorf("inc ran %d times, want all 3 repetitions attempted", inc.count())
	}
	if got := len(multierr.Errors(err)); got != 3 {
		t.Errorf("aggregate holds %d errors, want 3", got)
	}
}
