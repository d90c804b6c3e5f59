package events

import (
	"fmt"
	"log"
	"sync"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

// DefaultMaxEvents is how many events NewInMemoryEventStore retains
const DefaultMaxEvents = 10_000

// InMemoryEventStore keeps the most recent events in process memory.
// Subscribers are notified on their own goroutine so a slow handler never
// blocks a publisher.
//
// Once more than maxEvents are held the oldest are dropped. Positions passed
// to ReadAllEvents stay absolute across trimming. A stream whose events have
// all been dropped is forgotten and its versions start again at 1.
type InMemoryEventStore struct {
	streams     map[string][]Event
	versions    map[string]int
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	trimmed     int
	maxEvents   int
	wg          sync.WaitGroup
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return NewInMemoryEventStoreWithLimit(DefaultMaxEvents)
}

// NewInMemoryEventStoreWithLimit creates a store retaining at most maxEvents
// events (0 = unlimited)
func NewInMemoryEventStoreWithLimit(maxEvents int) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		versions:    make(map[string]int),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		maxEvents:   maxEvents,
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	if streamID == "" {
		return fmt.Errorf("stream id cannot be empty")
	}

	s.mutex.Lock()
	s.versions[streamID]++
	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID],
	}
	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	s.trim()

	handlers := make([]EventHandler, 0)
	handlers = append(handlers, s.subscribers[versioned.EventType]...)
	handlers = append(handlers, s.subscribers[AllEvents]...)
	s.mutex.Unlock()

	s.notifySubscribers(handlers, versioned)
	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if len(events) == 0 {
		return []Event{}, nil
	}

	start := fromVersion - events[0].Version()
	if start < 0 {
		start = 0
	}
	if start >= len(events) {
		return []Event{}, nil
	}

	out := make([]Event, len(events)-start)
	copy(out, events[start:])
	return out, nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := fromPosition - s.trimmed
	if start < 0 {
		start = 0
	}
	if start >= len(s.allEvents) {
		return []Event{}, nil
	}

	out := make([]Event, len(s.allEvents)-start)
	copy(out, s.allEvents[start:])
	return out, nil
}

// Len returns the number of retained events
func (s *InMemoryEventStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.allEvents)
}

// trim drops the oldest events beyond maxEvents. The caller holds the lock.
func (s *InMemoryEventStore) trim() {
	if s.maxEvents <= 0 {
		return
	}

	for len(s.allEvents) > s.maxEvents {
		oldest := s.allEvents[0]
		s.allEvents[0] = nil
		s.allEvents = s.allEvents[1:]
		s.trimmed++

		// the oldest event overall is also the oldest of its stream
		id := oldest.StreamID()
		stream := s.streams[id]
		if len(stream) <= 1 {
			delete(s.streams, id)
			delete(s.versions, id)
			continue
		}
		stream[0] = nil
		s.streams[id] = stream[1:]
	}
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	if len(eventTypes) == 0 {
		eventTypes = []string{AllEvents}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}

// Wait blocks until every in-flight handler has returned
func (s *InMemoryEventStore) Wait() {
	s.wg.Wait()
}

func (s *InMemoryEventStore) notifySubscribers(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		s.wg.Add(1)
		go func(h EventHandler, e Event) {
			defer s.wg.Done()
			if err := h.Handle(e); err != nil {
				log.Printf("events: handling %s on %s: %v", e.Type(), e.StreamID(), err)
			}
		}(handler, event)
	}
}
