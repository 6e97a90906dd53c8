package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the format of Todo.Date (server local time).
const DateLayout = "2006-01-02 15:04:05"

// Todo represents a todo item. It is addressed either by ID or by its
// current position in the store.
type Todo struct {
	ID   string `json:"id"`
	Text Text   `json:"text"`
	Date string `json:"date"`
}

// Text is the JSON value a client supplied as a todo's text. It is usually
// a string, but any JSON value is kept and encoded back unchanged.
type Text json.RawMessage

// StringText returns the Text holding s as a JSON string.
func StringText(s string) Text {
	b, _ := json.Marshal(s)
	return Text(b)
}

// String returns the decoded value of a JSON string, or the raw JSON of
// any other value.
func (t Text) String() string {
	if len(t) > 0 && t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			return s
		}
	}
	return string(t)
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return t, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = append((*t)[:0], b...)
	return nil
}

// Event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TodoEvent is the message payload for Kafka (one per store mutation).
type TodoEvent struct {
	Action     string    `json:"action"` // created, deleted
	Todo       Todo      `json:"todo"`
	Index      int       `json:"index"`
	Instance   string    `json:"instance"`
	OccurredAt time.Time `json:"occurred_at"`
}
