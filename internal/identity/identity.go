package identity

import "github.com/matvei-khlestov/vemora-sync/pkg/stream"

// Stream publishes the active authenticated user id. An empty string means
// signed out. Emissions are not deduplicated here; consumers dedup.
type Stream struct {
	subject *stream.Subject[string]
}

func NewStream() *Stream {
	s := &Stream{subject: stream.NewSubject[string]()}
	s.subject.Publish("")
	return s
}

func (s *Stream) Set(userID string) {
	s.subject.Publish(userID)
}

func (s *Stream) SignOut() {
	s.Set("")
}

func (s *Stream) Current() string {
	current, _ := s.subject.Value()
	return current
}

func (s *Stream) Subscribe(handler func(userID string)) *stream.Subscription[string] {
	return s.subject.Subscribe(handler)
}

// SubscribeAuthenticated adapts the id stream into the boolean
// authenticated-state stream some consumers want.
func (s *Stream) SubscribeAuthenticated(handler func(authenticated bool)) *stream.Subscription[string] {
	return s.subject.Subscribe(func(userID string) {
		handler(userID != "")
	})
}
