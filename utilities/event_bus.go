package utilities

import "sync"

// EventAssessmentSaved is published with the saved *model.AssessmentResult.
const EventAssessmentSaved = "assessment_saved"

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

// Publish runs every handler for event asynchronously. A panicking handler
// is logged and does not affect the publisher.
func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.wg.Add(1)
		go func(h EventHandler) {
			defer eb.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					Error("event handler for %q panicked: %v", event, r)
				}
			}()
			h(data)
		}(handler)
	}
}

// Wait blocks until all handlers started by Publish have returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}
