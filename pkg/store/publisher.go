package store

import "sync"

// Stream is a replay-latest broadcast of Refreshable updates for one (vehicle, resource kind)
// pair. New subscribers immediately observe the most recent state, so a late-attaching view does
// not need to trigger its own fetch to render the last known data. Streams live for the lifetime
// of the owning Store; only the disk cache survives process restarts.
type Stream[T any] struct {
	mu      sync.Mutex
	current Refreshable[T]
	subs    map[int]chan Refreshable[T]
	nextID  int
}

func newStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]chan Refreshable[T])}
}

// Current returns the stream's most recent state without subscribing.
func (s *Stream[T]) Current() Refreshable[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe returns a channel that yields the current state immediately and every subsequent
// update. The returned cancel function releases the subscription and closes the channel. A slow
// consumer loses intermediate updates, never the latest one.
func (s *Stream[T]) Subscribe() (<-chan Refreshable[T], func()) {
	ch := make(chan Refreshable[T], 8)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.current
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// loaded publishes a fresh value, clearing any prior error.
func (s *Stream[T]) loaded(value T) {
	s.publish(Refreshable[T]{Value: &value})
}

// failed publishes err while preserving the last known value.
func (s *Stream[T]) failed(err error) {
	s.mu.Lock()
	state := Refreshable[T]{Value: s.current.Value, Err: err}
	s.mu.Unlock()
	s.publish(state)
}

func (s *Stream[T]) publish(state Refreshable[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = state
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default:
			// Full buffer: evict the oldest pending update so the subscriber always ends up
			// observing the latest state.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// streamRegistry lazily creates one Stream per VIN. Each resource kind instantiates its own
// registry, sharing this single lazy-initialization path.
type streamRegistry[T any] struct {
	mu      sync.Mutex
	streams map[string]*Stream[T]
}

func (r *streamRegistry[T]) stream(vin string) *Stream[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.streams == nil {
		r.streams = make(map[string]*Stream[T])
	}
	s, ok := r.streams[vin]
	if !ok {
		s = newStream[T]()
		r.streams[vin] = s
	}
	return s
}
