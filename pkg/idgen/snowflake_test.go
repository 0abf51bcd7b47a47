package idgen

import (
	"testing"
)

type fakeClock struct {
	now int64
}

func (f *fakeClock) Now() int64 {
	return f.now
}

func TestSnowflake_Next(t *testing.T) {
	clock := &fakeClock{now: Epoch + 1000}
	sf, err := New(1, clock)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	id1, err := sf.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	id2, err := sf.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	if id1 == id2 {
		t.Errorf("IDs must be unique")
	}
	if id1 >= id2 {
		t.Errorf("IDs must be monotonically increasing: %d then %d", id1, id2)
	}
}

func TestSnowflake_NodeIDTooLarge(t *testing.T) {
	if _, err := New(1024, nil); err != ErrNodeIDTooLarge {
		t.Errorf("expected ErrNodeIDTooLarge, got %v", err)
	}
}

func TestSnowflake_ClockMovedBack(t *testing.T) {
	clock := &fakeClock{now: Epoch + 2000}
	sf, _ := New(1, clock)
	_, _ = sf.Next()

	clock.now = Epoch + 1000
	if _, err := sf.Next(); err != ErrClockMovedBack {
		t.Errorf("expected ErrClockMovedBack, got %v", err)
	}
}

func TestSnowflake_OrderedAcrossMilliseconds(t *testing.T) {
	clock := &fakeClock{now: Epoch + 1}
	sf, _ := New(3, clock)

	var last int64 = -1
	for i := 0; i < 100; i++ {
		clock.now++
		id, err := sf.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if id <= last {
			t.Fatalf("ID %d not greater than previous %d", id, last)
		}
		last = id
	}
}
