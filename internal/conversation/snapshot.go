package conversation

import "stock-assistant/internal/domain"

// Snapshot is a read-only copy of the conversation state handed to
// presentation layers.
type Snapshot struct {
	Messages   []domain.Message `json:"messages"`
	ActiveID   domain.MessageID `json:"active_message_id,omitempty"`
	Pending    bool             `json:"pending"`
	Armed      bool             `json:"armed"`
	Generation uint64           `json:"generation"`
}

// Clickable reports whether options of message id may be used: nothing is
// clickable while pending, otherwise only the active message (or any message
// when no pointer is set).
func (s Snapshot) Clickable(id domain.MessageID) bool {
	if s.Pending {
		return false
	}
	return s.ActiveID == 0 || s.ActiveID == id
}

// Message returns the message with the given id.
func (s Snapshot) Message(id domain.MessageID) (domain.Message, bool) {
	for _, m := range s.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Message{}, false
}

// ActiveMessage returns the message whose options are currently enabled.
func (s Snapshot) ActiveMessage() (domain.Message, bool) {
	if s.Pending || s.ActiveID == 0 {
		return domain.Message{}, false
	}
	return s.Message(s.ActiveID)
}

// Len returns the number of messages.
func (s Snapshot) Len() int { return len(s.Messages) }

// Last returns the newest message.
func (s Snapshot) Last() (domain.Message, bool) {
	if len(s.Messages) == 0 {
		return domain.Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
