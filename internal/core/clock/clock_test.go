package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	var order []string

	manual.After(300*time.Millisecond, func() { order = append(order, "late") })
	manual.After(100*time.Millisecond, func() { order = append(order, "early") })
	manual.After(100*time.Millisecond, func() { order = append(order, "early-second") })

	manual.Advance(time.Second)
	assert.Equal(t, []string{"early", "early-second", "late"}, order)
	assert.Equal(t, 0, manual.Pending())
	assert.Equal(t, time.Unix(1, 0), manual.Now())
}

func TestManualRepeatingAndCancel(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	count := 0
	handle := manual.Every(100*time.Millisecond, func() { count++ })

	manual.Advance(time.Second)
	assert.Equal(t, 10, count)

	manual.Cancel(handle)
	manual.Advance(time.Second)
	assert.Equal(t, 10, count)

	manual.Cancel(handle)
	manual.Cancel(0)
}

func TestManualCallbackMayCancelAndSchedule(t *testing.T) {
	manual := NewManual(time.Unix(0, 0))
	var ticks int
	var handle Handle
	fired := false

	handle = manual.Every(100*time.Millisecond, func() {
		ticks++
		if ticks == 3 {
			manual.Cancel(handle)
			manual.After(50*time.Millisecond, func() { fired = true })
		}
	})

	manual.Advance(310 * time.Millisecond)
	assert.Equal(t, 3, ticks)
	assert.False(t, fired)

	manual.Advance(40 * time.Millisecond)
	assert.True(t, fired)
	assert.Equal(t, 0, manual.Pending())
}

func TestRealAfterAndCancel(t *testing.T) {
	realClock := NewReal()
	var fired atomic.Int32
	done := make(chan struct{})

	realClock.After(5*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})
	cancelled := realClock.After(time.Hour, func() { fired.Add(100) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("one-shot callback did not fire")
	}
	realClock.Cancel(cancelled)
	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, 0, realClock.Pending())
}

func TestRealEveryStopsAfterCancel(t *testing.T) {
	realClock := NewReal()
	var ticks atomic.Int32
	handle := realClock.Every(2*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	realClock.Cancel(handle)
	time.Sleep(10 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load())
}
