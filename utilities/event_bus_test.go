package utilities

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
)

func TestEventBusPublishRunsSubscribers(t *testing.T) {
	bus := NewEventBus()
	var calls int32
	bus.Subscribe(EventAssessmentSaved, func(data interface{}) {
		if data.(int) != 7 {
			t.Errorf("unexpected payload %v", data)
		}
		atomic.AddInt32(&calls, 1)
	})
	bus.Subscribe(EventAssessmentSaved, func(interface{}) { atomic.AddInt32(&calls, 1) })
	bus.Subscribe("other", func(interface{}) { atomic.AddInt32(&calls, 100) })

	bus.Publish(EventAssessmentSaved, 7)
	bus.Wait()

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls=%d, want 2", got)
	}
}

func TestEventBusRecoversFromPanics(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelDebug)
	defer CloseLogging()

	bus := NewEventBus()
	bus.Subscribe("boom", func(interface{}) { panic("bad handler") })
	bus.Publish("boom", nil)
	bus.Wait()

	if !strings.Contains(buf.String(), "bad handler") {
		t.Fatalf("expected panic to be logged, got %q", buf.String())
	}
}

func TestEventBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish("nobody", struct{}{})
	bus.Wait()
}
