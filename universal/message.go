package universal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Roles observed in converted messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageKind discriminates between message forms.
type MessageKind string

const (
	MessageKindParsed   MessageKind = "parsed"
	MessageKindUnparsed MessageKind = "unparsed"
)

// Message is either a ParsedMessage or an UnparsedMessage.
type Message interface {
	MessageKind() MessageKind
	isMessage()
}

// ParsedMessage is a message decomposed into ordered parts.
type ParsedMessage struct {
	// ID is the backend's item or message identifier.
	ID   *string `json:"id,omitempty"`
	Role string  `json:"role"`
	// Metadata holds backend attributes such as itemType, status or turnId.
	Metadata Metadata `json:"metadata"`
	// Parts are in authoring order.
	Parts []Part `json:"parts"`
}

// UnparsedMessage is a message that could not be decomposed.
type UnparsedMessage struct {
	Raw   json.RawMessage `json:"raw"`
	Error string          `json:"error,omitempty"`
}

func (ParsedMessage) MessageKind() MessageKind   { return MessageKindParsed }
func (UnparsedMessage) MessageKind() MessageKind { return MessageKindUnparsed }

func (ParsedMessage) isMessage()   {}
func (UnparsedMessage) isMessage() {}

// Text joins the text of all TextParts with newlines. Other parts are skipped.
func (m ParsedMessage) Text() string {
	var texts []string
	for _, p := range m.Parts {
		if t, ok := tagged.Deref(p).(TextPart); ok {
			texts = append(texts, t.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// MarshalJSON implements json.Marshaler.
func (m ParsedMessage) MarshalJSON() ([]byte, error) {
	type alias ParsedMessage
	if m.Parts == nil {
		m.Parts = []Part{}
	}
	return tagged.Marshal("kind", string(MessageKindParsed), alias(m))
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *ParsedMessage) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID       *string           `json:"id"`
		Role     string            `json:"role"`
		Metadata Metadata          `json:"metadata"`
		Parts    []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	parts := make([]Part, 0, len(wire.Parts))
	for i, raw := range wire.Parts {
		p, err := ParsePart(raw)
		if err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
		parts = append(parts, p)
	}
	*m = ParsedMessage{ID: wire.ID, Role: wire.Role, Metadata: wire.Metadata, Parts: parts}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m UnparsedMessage) MarshalJSON() ([]byte, error) {
	type alias UnparsedMessage
	if m.Raw == nil {
		m.Raw = nullRaw
	}
	return tagged.Marshal("kind", string(MessageKindUnparsed), alias(m))
}

var messageDecoders = map[string]func([]byte) (Message, error){
	string(MessageKindParsed):   tagged.As[ParsedMessage, Message],
	string(MessageKindUnparsed): tagged.As[UnparsedMessage, Message],
}

// ParseMessage decodes a tagged message.
func ParseMessage(data []byte) (Message, error) {
	return tagged.Decode(data, "kind", messageDecoders)
}
