package conversation

import (
	"time"

	"stock-assistant/internal/domain"
)

// Store is the append-only conversation log plus the pointer to the message
// whose options are currently clickable.
type Store struct {
	messages []domain.Message
	index    map[domain.MessageID]int
	lastID   domain.MessageID
	active   domain.MessageID
	now      func() time.Time
}

// NewStore returns an empty store. A nil now uses time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		index: make(map[domain.MessageID]int),
		now:   now,
	}
}

// Append assigns the next id to msg, stores a private copy at the tail and
// returns the id.
func (s *Store) Append(msg domain.Message) domain.MessageID {
	s.lastID++
	msg.ID = s.lastID
	msg.CreatedAt = s.now()
	msg.Options = append([]domain.Option(nil), msg.Options...)

	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
	return msg.ID
}

// SetActive points at the interactable message. Zero clears the pointer.
func (s *Store) SetActive(id domain.MessageID) {
	s.active = id
}

// Active returns the active message id, if one is set.
func (s *Store) Active() (domain.MessageID, bool) {
	return s.active, s.active != 0
}

// Get returns a copy of the message with the given id.
func (s *Store) Get(id domain.MessageID) (domain.Message, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Message{}, false
	}
	return copyMessage(s.messages[i]), true
}

// Len returns the number of stored messages.
func (s *Store) Len() int { return len(s.messages) }

// Messages returns the whole log, oldest first.
func (s *Store) Messages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = copyMessage(m)
	}
	return out
}

func copyMessage(m domain.Message) domain.Message {
	m.Options = append([]domain.Option(nil), m.Options...)
	return m
}
