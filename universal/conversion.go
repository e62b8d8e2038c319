package universal

import (
	"encoding/json"
	"fmt"
)

// EventConversion is the result of converting one backend notification.
// SessionID, when set, is the backend thread or session the notification
// belongs to.
type EventConversion struct {
	Data      EventData `json:"data"`
	SessionID *string   `json:"sessionId,omitempty"`
}

// NewEventConversion wraps data without session correlation.
func NewEventConversion(data EventData) EventConversion {
	return EventConversion{Data: data}
}

// WithSession returns a copy of c correlated with session id.
func (c EventConversion) WithSession(id string) EventConversion {
	c.SessionID = &id
	return c
}

// WithSessionIfSet is WithSession for backends whose session id may be
// absent; an empty id leaves c uncorrelated.
func (c EventConversion) WithSessionIfSet(id string) EventConversion {
	if id == "" {
		return c
	}
	return c.WithSession(id)
}

// Session returns the session id, or "" when there is none.
func (c EventConversion) Session() string {
	if c.SessionID == nil {
		return ""
	}
	return *c.SessionID
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *EventConversion) UnmarshalJSON(data []byte) error {
	var wire struct {
		Data      json.RawMessage `json:"data"`
		SessionID *string         `json:"sessionId"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	ev, err := ParseEventData(wire.Data)
	if err != nil {
		return err
	}
	*c = EventConversion{Data: ev, SessionID: wire.SessionID}
	return nil
}

// ParseEventConversion decodes an encoded EventConversion.
func ParseEventConversion(data []byte) (EventConversion, error) {
	var c EventConversion
	if err := json.Unmarshal(data, &c); err != nil {
		return EventConversion{}, fmt.Errorf("parse event conversion: %w", err)
	}
	return c, nil
}
