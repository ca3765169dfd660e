package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAtomicEvent(t *testing.T) {
	ae := NewAtomicEvent[any]()
	assert.NotNil(t, ae, "NewAtomicEvent should not return nil")
	assert.NotNil(t, ae.notify, "notify channel should be initialized")
}

func TestSendAndValue(t *testing.T) {
	aeInt := NewAtomicEvent[int]()
	aeInt.Send(123)
	assert.Equal(t, 123, aeInt.Value(), "Value should be 123")

	type tick struct {
		Hour, Minute, Second uint8
	}
	ts := tick{Hour: 6, Minute: 30}
	aeTick := NewAtomicEvent[tick]()
	aeTick.Send(ts)
	assert.Equal(t, ts, aeTick.Value(), "Value should be the sent struct")
}

func TestNotificationChannel(t *testing.T) {
	ae := NewAtomicEvent[string]()

	ae.Send("event1")
	select {
	case <-ae.Channel():
	default:
		t.Fatal("should have received a notification")
	}

	select {
	case <-ae.Channel():
		t.Fatal("channel should be empty")
	default:
	}

	// A burst of sends collapses into a single notification carrying the
	// latest value.
	ae.Send("event2")
	ae.Send("event3")
	select {
	case <-ae.Channel():
	default:
		t.Fatal("should have received a notification")
	}
	select {
	case <-ae.Channel():
		t.Fatal("channel should be empty")
	default:
	}
	assert.Equal(t, "event3", ae.Value(), "Value should be the last event sent")
}

func TestHasPending(t *testing.T) {
	ae := NewAtomicEvent[int]()
	assert.False(t, ae.HasPending())

	ae.Send(1)
	assert.True(t, ae.HasPending())

	<-ae.Channel()
	assert.False(t, ae.HasPending())
}

func TestConcurrency(t *testing.T) {
	ae := NewAtomicEvent[int]()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			ae.Send(i)
		}
		close(done)
	}()

	lastRead := -1
	var readerWg sync.WaitGroup
	readerWg.Add(1)
	go func() {
		defer readerWg.Done()
		for {
			select {
			case <-ae.Channel():
				val := ae.Value()
				if val < lastRead {
					t.Errorf("read a stale value: got %d, last was %d", val, lastRead)
				}
				lastRead = val
			case <-done:
				// Drain the channel one last time to avoid a race.
				select {
				case <-ae.Channel():
					val := ae.Value()
					if val < lastRead {
						t.Errorf("read a stale value: got %d, last was %d", val, lastRead)
					}
					lastRead = val
				default:
				}
				return
			}
		}
	}()

	readerWg.Wait()

	assert.Equal(t, 999, ae.Value(), "Final value should be 999")
}
