package claude

import (
	"encoding/json"
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
	"github.com/bazelment/yoloswe/agentschema/universal"
)

// Started labels.
const (
	LabelSystemInit   = "system/init"
	LabelMessageStart = "message/start"
)

// Item types written to universal metadata.
const (
	ItemTypeAssistantMessage = "assistantMessage"
	ItemTypeUserMessage      = "userMessage"
	ItemTypeResult           = "result"
	ItemTypeText             = "text"
	ItemTypeThinking         = "thinking"
	ItemTypeToolInput        = "toolInput"
)

// NotificationToUniversal converts one stream-json line into a universal
// event. It is defined for every Notification variant, and for pointers to
// them, and never fails.
func NotificationToUniversal(n Notification) universal.EventConversion {
	n = tagged.Deref(n)
	switch m := n.(type) {
	case nil:
		return universal.NewEventConversion(universal.UnknownEvent{})
	case SystemMessage:
		if m.Subtype == SubtypeInit {
			return started(LabelSystemInit, m).WithSessionIfSet(m.SessionID)
		}
		return unknown(m).WithSessionIfSet(m.SessionID)
	case AssistantMessage:
		msg := contentToMessage(universal.RoleAssistant, m.UUID, m.ParentToolUseID, m.Message)
		return message(msg).WithSessionIfSet(m.SessionID)
	case UserMessage:
		msg := contentToMessage(universal.RoleUser, m.UUID, m.ParentToolUseID, m.Message)
		return message(msg).WithSessionIfSet(m.SessionID)
	case ResultMessage:
		return resultToUniversal(m)
	case StreamEvent:
		return streamEventToUniversal(m)
	case ControlRequest, ControlResponse, ControlCancelRequest:
		return unknown(n)
	case AuthStatus:
		return unknown(m).WithSessionIfSet(m.SessionID)
	default:
		panic(fmt.Sprintf("claude: no universal mapping for %T", n))
	}
}

// ContentToMessage converts the inner message of an assistant or user line.
func ContentToMessage(role string, content MessageContent) universal.Message {
	return contentToMessage(role, "", nil, content)
}

func contentToMessage(role, uuid string, parentToolUseID *string, content MessageContent) universal.Message {
	blocks, err := contentBlocks(content.Content)
	if err != nil {
		return universal.UnparsedMessage{Raw: universal.RawValue(content), Error: err.Error()}
	}

	itemType := ItemTypeAssistantMessage
	if role == universal.RoleUser {
		itemType = ItemTypeUserMessage
	}
	md := universal.NewMetadata()
	md.Set("itemType", itemType)
	if content.Model != "" {
		md.Set("model", content.Model)
	}
	if content.StopReason != nil {
		md.Set("stopReason", *content.StopReason)
	}
	if parentToolUseID != nil {
		md.Set("parentToolUseId", *parentToolUseID)
	}

	parts := make([]universal.Part, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, blockToPart(block))
	}

	id := content.ID
	if id == "" {
		id = uuid
	}
	return parsed(role, id, md, parts)
}

// contentBlocks reads string content as a single text block.
func contentBlocks(fc FlexibleContent) (ContentBlocks, error) {
	if len(fc.raw) == 0 || string(fc.raw) == "null" {
		return nil, nil
	}
	if s, ok := fc.AsString(); ok {
		return ContentBlocks{TextBlock{Text: s}}, nil
	}
	return fc.AsBlocks()
}

func blockToPart(block ContentBlock) universal.Part {
	block = tagged.Deref(block)
	switch b := block.(type) {
	case TextBlock:
		return universal.TextPart{Text: b.Text}
	case ToolUseBlock:
		input := b.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return universal.ToolCallPart{ID: universal.Ptr(b.ID), Name: b.Name, Input: input}
	case ToolResultBlock:
		output := b.Content
		if len(output) == 0 {
			output = json.RawMessage("null")
		}
		return universal.ToolResultPart{ID: universal.Ptr(b.ToolUseID), Output: output, IsError: b.IsError}
	case ImageBlock:
		return imageToPart(b)
	case ThinkingBlock, RedactedThinkingBlock, UnknownBlock:
		return universal.UnknownPart{Raw: universal.RawValue(b)}
	case nil:
		return universal.UnknownPart{Raw: json.RawMessage("null")}
	default:
		panic(fmt.Sprintf("claude: no part mapping for %T", block))
	}
}

// imageToPart turns base64 images into data URLs.
func imageToPart(b ImageBlock) universal.Part {
	switch b.Source.Type {
	case "base64":
		part := universal.ImagePart{
			Source: universal.URLSource{URL: "data:" + b.Source.MediaType + ";base64," + b.Source.Data},
		}
		if b.Source.MediaType != "" {
			part.MimeType = universal.Ptr(b.Source.MediaType)
		}
		return part
	case "url":
		return universal.ImagePart{Source: universal.URLSource{URL: b.Source.URL}}
	default:
		return universal.UnknownPart{Raw: universal.RawValue(b)}
	}
}

func resultToUniversal(m ResultMessage) universal.EventConversion {
	if m.IsError {
		msg := m.Result
		if msg == "" {
			msg = m.Subtype
		}
		return universal.NewEventConversion(universal.ErrorEvent{Error: universal.CrashInfo{
			Message: msg,
			Kind:    "error",
			Details: universal.RawValue(m),
		}}).WithSessionIfSet(m.SessionID)
	}

	md := universal.NewMetadata()
	md.Set("itemType", ItemTypeResult)
	md.Set("subtype", m.Subtype)
	md.Set("numTurns", m.NumTurns)
	md.Set("durationMs", m.DurationMs)
	md.Set("totalCostUsd", m.TotalCostUSD)
	parts := []universal.Part{}
	if m.Result != "" {
		parts = append(parts, universal.TextPart{Text: m.Result})
	}
	return message(parsed(universal.RoleAssistant, m.UUID, md, parts)).WithSessionIfSet(m.SessionID)
}

// streamEventToUniversal maps message starts and textual block deltas.
// Every other inner event, and anything that fails to parse, is kept as
// Unknown.
func streamEventToUniversal(m StreamEvent) universal.EventConversion {
	inner, err := ParseStreamEvent(m.Event)
	if err != nil {
		return unknown(m).WithSessionIfSet(m.SessionID)
	}
	switch e := inner.(type) {
	case MessageStartEvent:
		return started(LabelMessageStart, e.Message).WithSessionIfSet(m.SessionID)
	case ContentBlockDeltaEvent:
		d, err := e.ParsedDelta()
		if err != nil {
			break
		}
		var itemType, text string
		switch d := d.(type) {
		case TextDelta:
			itemType, text = ItemTypeText, d.Text
		case ThinkingDelta:
			itemType, text = ItemTypeThinking, d.Thinking
		case InputJSONDelta:
			itemType, text = ItemTypeToolInput, d.PartialJSON
		default:
			return unknown(m).WithSessionIfSet(m.SessionID)
		}
		md := universal.NewMetadata()
		md.Set("delta", true)
		md.Set("itemType", itemType)
		md.Set("index", e.Index)
		msg := parsed(universal.RoleAssistant, m.UUID, md, []universal.Part{universal.TextPart{Text: text}})
		return message(msg).WithSessionIfSet(m.SessionID)
	}
	return unknown(m).WithSessionIfSet(m.SessionID)
}

// UniversalEventToClaude converts a universal event back into a stream-json
// line. Messages become assistant messages with one text block; errors
// become error results. The session id comes from opts and defaults to
// universal.PlaceholderID. Other events fail with universal.ErrUnsupported.
func UniversalEventToClaude(ev universal.EventData, opts ...universal.ReverseOption) (Notification, error) {
	corr := universal.ResolveCorrelation(opts...)

	switch e := tagged.Deref(ev).(type) {
	case universal.MessageEvent:
		msg, ok := tagged.Deref(e.Message).(universal.ParsedMessage)
		if !ok {
			return nil, universal.Unsupported("unparsed message")
		}
		content, err := BlockContent(TextBlock{Text: msg.Text()})
		if err != nil {
			return nil, err
		}
		out := AssistantMessage{
			SessionID: corr.ThreadID,
			Message: MessageContent{
				Type:    "message",
				Role:    universal.RoleAssistant,
				Content: content,
			},
		}
		if msg.ID != nil {
			out.Message.ID = *msg.ID
		}
		return out, nil

	case universal.ErrorEvent:
		return ResultMessage{
			Subtype:   SubtypeErrorDuringExecution,
			SessionID: corr.ThreadID,
			Result:    e.Error.Message,
			IsError:   true,
		}, nil

	default:
		return nil, universal.Unsupported("claude event type")
	}
}

func started(label string, details any) universal.EventConversion {
	return universal.NewEventConversion(universal.StartedEvent{Started: universal.Started{
		Message: label,
		Details: universal.OptionalRaw(details),
	}})
}

func message(msg universal.Message) universal.EventConversion {
	return universal.NewEventConversion(universal.MessageEvent{Message: msg})
}

// unknown keeps the whole line so that Raw decodes back with
// ParseNotification.
func unknown(n Notification) universal.EventConversion {
	return universal.NewEventConversion(universal.NewUnknown(n))
}

func parsed(role, id string, md universal.Metadata, parts []universal.Part) universal.ParsedMessage {
	msg := universal.ParsedMessage{Role: role, Metadata: md, Parts: parts}
	if id != "" {
		msg.ID = universal.Ptr(id)
	}
	return msg
}
