package frame

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/matt-g-everett/ledkey/animate"
)

var (
	_ animate.Scheduler = (*Loop)(nil)
	_ animate.Scheduler = (*Manual)(nil)
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualTimersFireInOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })
	late := m.AfterFunc(50*time.Millisecond, func() { order = append(order, "late") })

	m.Advance(40 * time.Millisecond)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if !m.Now().Equal(epoch.Add(40 * time.Millisecond)) {
		t.Errorf("Now() = %v", m.Now())
	}

	late.Cancel()
	late.Cancel()
	m.Advance(time.Second)
	if len(order) != 3 {
		t.Errorf("cancelled timer ran: %v", order)
	}
}

func TestManualFlushDefersNewRequests(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	var again func(time.Time)
	again = func(time.Time) {
		calls++
		m.RequestFrame(again)
	}
	m.RequestFrame(again)

	if n := m.Flush(); n != 1 {
		t.Errorf("Flush() = %d, want 1", n)
	}
	if n := m.Flush(); n != 1 {
		t.Errorf("second Flush() = %d, want 1", n)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if f, _ := m.Pending(); f != 1 {
		t.Errorf("pending frames = %d, want 1", f)
	}
}

func TestManualFlushAtPassesDeliveredTime(t *testing.T) {
	m := NewManual(epoch)
	var got time.Time
	m.RequestFrame(func(at time.Time) { got = at })
	m.Advance(time.Second)
	m.FlushAt(epoch)
	if !got.Equal(epoch) {
		t.Errorf("delivered %v, want %v", got, epoch)
	}
}

func TestManualCancelledFrameSkipped(t *testing.T) {
	m := NewManual(epoch)
	h := m.RequestFrame(func(time.Time) { t.Error("cancelled frame ran") })
	h.Cancel()
	if n := m.Flush(); n != 0 {
		t.Errorf("Flush() = %d, want 0", n)
	}
	h.Cancel()
}

func TestLoopRunsFramesAndTimers(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go l.Run(ctx)

	frames := make(chan time.Time, 1)
	timers := make(chan struct{}, 1)
	l.Post(func() {
		l.RequestFrame(func(at time.Time) { frames <- at })
		l.AfterFunc(10*time.Millisecond, func() { timers <- struct{}{} })
	})

	select {
	case <-frames:
	case <-ctx.Done():
		t.Fatal("frame never delivered")
	}
	select {
	case <-timers:
	case <-ctx.Done():
		t.Fatal("timer never fired")
	}
}

func TestLoopCancelledTimerDoesNotRun(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go l.Run(ctx)

	ran := make(chan struct{}, 1)
	done := make(chan struct{})
	l.Post(func() {
		h := l.AfterFunc(5*time.Millisecond, func() { ran <- struct{}{} })
		h.Cancel()
		l.AfterFunc(30*time.Millisecond, func() { close(done) })
	})

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("control timer never fired")
	}
	select {
	case <-ran:
		t.Error("cancelled timer ran")
	default:
	}
}

func TestNewLoopInterval(t *testing.T) {
	if got := NewLoop(50).Interval(); got != 20*time.Millisecond {
		t.Errorf("Interval() = %v, want 20ms", got)
	}
	if got := NewLoop(0).Interval(); got != time.Second/30 {
		t.Errorf("Interval() with no rate = %v, want %v", got, time.Second/30)
	}
}

func TestLoopRefusesPostsAfterRun(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); err != context.Canceled {
		t.Fatalf("Run() = %v, want %v", err, context.Canceled)
	}

	done := make(chan int)
	go func() {
		accepted := 0
		for i := 0; i < 100; i++ {
			if l.Post(func() {}) {
				accepted++
			}
		}
		done <- accepted
	}()
	select {
	case n := <-done:
		if n != 0 {
			t.Errorf("accepted %d posts after Run returned, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Run returned")
	}
}
