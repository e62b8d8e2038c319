package amp

import (
	"encoding/json"
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
	"github.com/bazelment/yoloswe/agentschema/universal"
)

// DefaultMessageID is the message id used by UniversalEventToAmp when the
// universal message has none.
const DefaultMessageID = "msg"

// LabelThreadStarted is the Started message of thread.started conversions.
const LabelThreadStarted = "thread/started"

// Metadata item types.
const (
	ItemTypeMessage = "message"
	ItemTypeToolRun = "toolRun"
)

// EventToUniversal converts one Amp event into a universal event. It is
// defined for every Event variant, and for pointers to them, and never
// fails.
func EventToUniversal(e Event) universal.EventConversion {
	e = tagged.Deref(e)
	switch v := e.(type) {
	case nil:
		return universal.NewEventConversion(universal.UnknownEvent{})

	case ThreadStarted:
		return universal.NewEventConversion(universal.StartedEvent{Started: universal.Started{
			Message: LabelThreadStarted,
			Details: universal.OptionalRaw(v),
		}}).WithSessionIfSet(v.ThreadID)
	case MessageEvent:
		return message(MessageToUniversal(v.Message)).WithSessionIfSet(v.ThreadID)
	case MessageDelta:
		return deltaToUniversal(v)
	case ThreadCompleted:
		if len(v.Messages) == 0 {
			return unknown(e).WithSessionIfSet(v.ThreadID)
		}
		last := v.Messages[len(v.Messages)-1]
		return message(MessageToUniversal(last)).WithSessionIfSet(v.ThreadID)
	case ToolRunUpdated:
		return toolRunToUniversal(v)
	case ErrorEvent:
		return universal.NewEventConversion(universal.ErrorEvent{Error: universal.CrashInfo{
			Message: v.Message,
			Kind:    "error",
			Details: universal.RawValue(v),
		}}).WithSessionIfSet(v.ThreadID)

	case Usage:
		return unknown(e).WithSessionIfSet(v.ThreadID)
	case ThreadTitle:
		return unknown(e).WithSessionIfSet(v.ThreadID)

	case AuthChanged, SettingsUpdated, VersionNotice:
		return unknown(e)

	default:
		panic(fmt.Sprintf("amp: no universal mapping for %T", e))
	}
}

func deltaToUniversal(e MessageDelta) universal.EventConversion {
	md := universal.NewMetadata()
	md.Set("delta", true)
	md.Set("itemType", e.Kind)
	md.Set("turnId", e.MessageID)
	msg := parsed(e.MessageID, md, []universal.Part{universal.TextPart{Text: e.Delta}})
	return message(msg).WithSessionIfSet(e.ThreadID)
}

// toolRunToUniversal reports finished runs as a tool result; runs still in
// flight have no universal form.
func toolRunToUniversal(e ToolRunUpdated) universal.EventConversion {
	if !e.Run.Terminal() {
		return unknown(e).WithSessionIfSet(e.ThreadID)
	}
	md := universal.NewMetadata()
	md.Set("itemType", ItemTypeToolRun)
	md.Set("status", e.Run.Status)
	result := universal.ToolResultPart{
		ID:      universal.Ptr(e.ToolUseID),
		Output:  e.Run.Output(),
		IsError: universal.Ptr(e.Run.Failed()),
	}
	if e.Name != "" {
		result.Name = universal.Ptr(e.Name)
	}
	msg := parsed(e.ToolUseID, md, []universal.Part{result})
	return message(msg).WithSessionIfSet(e.ThreadID)
}

// MessageToUniversal converts an Amp message into a universal message with
// one part per content block followed by one tool call part per tool call.
// String content is a single text part.
func MessageToUniversal(m Message) universal.Message {
	md := universal.NewMetadata()
	md.Set("itemType", ItemTypeMessage)
	if m.Model != "" {
		md.Set("model", m.Model)
	}
	blocks := m.Content.AsBlocks()
	parts := make([]universal.Part, 0, len(blocks)+len(m.ToolCalls))
	for _, b := range blocks {
		parts = append(parts, blockToPart(b))
	}
	for _, call := range m.ToolCalls {
		parts = append(parts, toolCallToPart(call))
	}
	msg := parsed(m.ID, md, parts)
	if m.Role == universal.RoleUser {
		msg.Role = universal.RoleUser
	}
	return msg
}

// ThreadMessagesToMessages converts every message of a completed thread, in
// order.
func ThreadMessagesToMessages(msgs []Message) []universal.Message {
	out := make([]universal.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageToUniversal(m))
	}
	return out
}

func toolCallToPart(call ToolCall) universal.Part {
	input := call.Arguments
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	part := universal.ToolCallPart{Name: call.Name, Input: input}
	if call.ID != "" {
		part.ID = universal.Ptr(call.ID)
	}
	return part
}

func blockToPart(b ContentBlock) universal.Part {
	b = tagged.Deref(b)
	switch v := b.(type) {
	case nil:
		return universal.UnknownPart{Raw: json.RawMessage("null")}
	case TextBlock:
		return universal.TextPart{Text: v.Text}
	case ToolUseBlock:
		input := v.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return universal.ToolCallPart{ID: universal.Ptr(v.ID), Name: v.Name, Input: input}
	case ToolResultBlock:
		part := universal.ToolResultPart{
			ID:     universal.Ptr(v.ToolUseID),
			Output: v.Run.Output(),
		}
		if v.Run.Terminal() {
			part.IsError = universal.Ptr(v.Run.Failed())
		}
		return part
	default:
		// thinking and anything without a universal part
		return universal.UnknownPart{Raw: universal.RawValue(b)}
	}
}

// UniversalEventToAmp converts a universal event back into an Amp event.
// Messages become message events with one text block; errors become
// non-retryable error events. The thread id comes from opts and defaults to
// universal.PlaceholderID. Other events fail with universal.ErrUnsupported.
func UniversalEventToAmp(ev universal.EventData, opts ...universal.ReverseOption) (Event, error) {
	corr := universal.ResolveCorrelation(opts...)

	switch e := tagged.Deref(ev).(type) {
	case universal.MessageEvent:
		msg, ok := tagged.Deref(e.Message).(universal.ParsedMessage)
		if !ok {
			return nil, universal.Unsupported("unparsed message")
		}
		id := DefaultMessageID
		if msg.ID != nil {
			id = *msg.ID
		}
		return MessageEvent{
			ThreadID: corr.ThreadID,
			Message: Message{
				ID:      id,
				Role:    universal.RoleAssistant,
				Content: BlockContent(TextBlock{Text: msg.Text()}),
			},
		}, nil

	case universal.ErrorEvent:
		return ErrorEvent{ThreadID: corr.ThreadID, Message: e.Error.Message}, nil

	default:
		return nil, universal.Unsupported("amp event type")
	}
}

func message(msg universal.Message) universal.EventConversion {
	return universal.NewEventConversion(universal.MessageEvent{Message: msg})
}

// unknown keeps the tagged event so that Raw decodes back with ParseEvent.
func unknown(e Event) universal.EventConversion {
	return universal.NewEventConversion(universal.NewUnknown(e))
}

func parsed(id string, md universal.Metadata, parts []universal.Part) universal.ParsedMessage {
	msg := universal.ParsedMessage{Role: universal.RoleAssistant, Metadata: md, Parts: parts}
	if id != "" {
		msg.ID = universal.Ptr(id)
	}
	return msg
}
