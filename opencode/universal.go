package opencode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
	"github.com/bazelment/yoloswe/agentschema/universal"
)

// DefaultPartID names the text part built by UniversalEventToOpenCode when
// the universal message has no id.
const DefaultPartID = "part"

// ItemTypeMessage is the metadata item type of message.updated conversions.
const ItemTypeMessage = "message"

// EventToUniversal converts one server event into a universal event. It is
// defined for every Event variant and never fails. Events that name a
// session are correlated with it. Pointers to variants convert like the
// variants themselves.
func EventToUniversal(e Event) universal.EventConversion {
	e = tagged.Deref(e)
	switch v := e.(type) {
	case nil:
		return universal.NewEventConversion(universal.UnknownEvent{})

	case SessionCreated:
		return started(EventSessionCreated, v.Info).WithSessionIfSet(v.Info.ID)
	case MessageUpdated:
		return message(MessageToUniversal(v.Info)).WithSessionIfSet(v.Info.SessionID)
	case MessagePartUpdated:
		return partUpdatedToUniversal(v)
	case SessionError:
		return sessionErrorToUniversal(v)

	// Session-scoped events with no universal equivalent
	case SessionUpdated:
		return unknown(e).WithSessionIfSet(v.Info.ID)
	case SessionDeleted:
		return unknown(e).WithSessionIfSet(v.Info.ID)
	case SessionStatus:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case SessionIdle:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case SessionCompacted:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case SessionDiff:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case MessageRemoved:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case MessagePartRemoved:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case PermissionUpdated:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case PermissionReplied:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case TodoUpdated:
		return unknown(e).WithSessionIfSet(v.SessionID)
	case CommandExecuted:
		return unknown(e).WithSessionIfSet(v.SessionID)

	// Server-wide
	case ServerConnected,
		InstallationUpdated,
		InstallationUpdateAvailable,
		LspClientDiagnostics,
		LspUpdated,
		FileEdited,
		FileWatcherUpdated:
		return unknown(e)

	default:
		panic(fmt.Sprintf("opencode: no universal mapping for %T", e))
	}
}

// partUpdatedToUniversal emits a delta message while a part streams and the
// full part otherwise.
func partUpdatedToUniversal(e MessagePartUpdated) universal.EventConversion {
	e.Part = tagged.Deref(e.Part)
	if e.Part == nil {
		return unknown(e)
	}
	ref := e.Part.Ref()
	if e.Delta != "" {
		md := universal.NewMetadata()
		md.Set("delta", true)
		md.Set("itemType", e.Part.PartType())
		md.Set("turnId", ref.MessageID)
		msg := parsed(ref.ID, md, []universal.Part{universal.TextPart{Text: e.Delta}})
		return message(msg).WithSessionIfSet(ref.SessionID)
	}
	return message(PartToMessage(e.Part)).WithSessionIfSet(ref.SessionID)
}

func sessionErrorToUniversal(e SessionError) universal.EventConversion {
	msg := "session error"
	if e.Error != nil {
		switch {
		case e.Error.Data.Message != "":
			msg = e.Error.Data.Message
		case e.Error.Name != "":
			msg = e.Error.Name
		}
	}
	return universal.NewEventConversion(universal.ErrorEvent{Error: universal.CrashInfo{
		Message: msg,
		Kind:    "error",
		Details: universal.RawValue(e),
	}}).WithSessionIfSet(e.SessionID)
}

// MessageToUniversal converts message info into a universal message with no
// parts; content arrives separately as part updates.
func MessageToUniversal(m Message) universal.Message {
	role := universal.RoleAssistant
	if m.Role == universal.RoleUser {
		role = universal.RoleUser
	}
	md := universal.NewMetadata()
	md.Set("itemType", ItemTypeMessage)
	if m.ModelID != "" {
		md.Set("modelId", m.ModelID)
	}
	if m.ProviderID != "" {
		md.Set("providerId", m.ProviderID)
	}
	if m.Mode != "" {
		md.Set("mode", m.Mode)
	}
	if m.Finish != nil {
		md.Set("finish", *m.Finish)
	}
	if role == universal.RoleAssistant {
		md.Set("cost", m.Cost)
	}
	if m.Error != nil {
		md.Set("error", m.Error)
	}
	msg := parsed(m.ID, md, []universal.Part{})
	msg.Role = role
	return msg
}

// PartToMessage converts one message part into a universal message. Parts
// that carry no content become messages with metadata only.
func PartToMessage(p Part) universal.Message {
	p = tagged.Deref(p)
	switch v := p.(type) {
	case nil:
		return universal.UnparsedMessage{Raw: json.RawMessage("null"), Error: "missing part"}
	case TextPart:
		md := partMetadata(v.PartRef, PartTypeText)
		if v.Synthetic {
			md.Set("synthetic", true)
		}
		return parsed(v.ID, md, []universal.Part{universal.TextPart{Text: v.Text}})
	case ReasoningPart:
		return parsed(v.ID, partMetadata(v.PartRef, PartTypeReasoning),
			[]universal.Part{universal.TextPart{Text: v.Text}})
	case ToolPart:
		return toolToMessage(v)
	case FilePart:
		md := partMetadata(v.PartRef, PartTypeFile)
		return parsed(v.ID, md, []universal.Part{fileToPart(v)})
	case StepStartPart:
		md := partMetadata(v.PartRef, PartTypeStepStart)
		if v.Snapshot != nil {
			md.Set("snapshot", *v.Snapshot)
		}
		return parsed(v.ID, md, []universal.Part{})
	case StepFinishPart:
		md := partMetadata(v.PartRef, PartTypeStepFinish)
		md.Set("reason", v.Reason)
		md.Set("cost", v.Cost)
		if v.Snapshot != nil {
			md.Set("snapshot", *v.Snapshot)
		}
		return parsed(v.ID, md, []universal.Part{})
	case SnapshotPart:
		md := partMetadata(v.PartRef, PartTypeSnapshot)
		md.Set("snapshot", v.Snapshot)
		return parsed(v.ID, md, []universal.Part{})
	case PatchPart:
		md := partMetadata(v.PartRef, PartTypePatch)
		md.Set("hash", v.Hash)
		md.Set("files", v.Files)
		return parsed(v.ID, md, []universal.Part{})
	case AgentPart:
		md := partMetadata(v.PartRef, PartTypeAgent)
		md.Set("name", v.Name)
		return parsed(v.ID, md, []universal.Part{})
	case RetryPart:
		md := partMetadata(v.PartRef, PartTypeRetry)
		md.Set("attempt", v.Attempt)
		md.Set("error", v.Error.Data.Message)
		return parsed(v.ID, md, []universal.Part{})
	case CompactionPart:
		md := partMetadata(v.PartRef, PartTypeCompaction)
		md.Set("auto", v.Auto)
		return parsed(v.ID, md, []universal.Part{})
	default:
		panic(fmt.Sprintf("opencode: no message mapping for %T", p))
	}
}

// toolToMessage always yields [ToolCall, ToolResult]. The result output is
// the tool output when present, otherwise the error message. The result is
// an error exactly when its output is the error message.
func toolToMessage(v ToolPart) universal.Message {
	md := partMetadata(v.PartRef, PartTypeTool)
	md.Set("state", v.State)
	if v.Title != nil {
		md.Set("title", *v.Title)
	}

	output := json.RawMessage("null")
	switch {
	case v.Output != nil:
		output = universal.RawValue(*v.Output)
	case v.Error != nil:
		output = universal.RawValue(*v.Error)
	}
	input := v.Input
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	return parsed(v.ID, md, []universal.Part{
		universal.ToolCallPart{ID: universal.Ptr(v.ToolCallID), Name: v.ToolName, Input: input},
		universal.ToolResultPart{
			ID:      universal.Ptr(v.ToolCallID),
			Name:    universal.Ptr(v.ToolName),
			Output:  output,
			IsError: universal.Ptr(v.Output == nil && v.Error != nil),
		},
	})
}

// fileToPart maps image attachments to image parts; other files are kept
// opaque.
func fileToPart(v FilePart) universal.Part {
	if !strings.HasPrefix(v.MediaType, "image/") {
		return universal.UnknownPart{Raw: universal.RawValue(v)}
	}
	part := universal.ImagePart{
		Source:   universal.URLSource{URL: v.URL},
		MimeType: universal.Ptr(v.MediaType),
	}
	if v.Filename != "" {
		part.Alt = universal.Ptr(v.Filename)
	}
	return part
}

// UniversalEventToOpenCode converts a universal event back into a server
// event. Messages become message.part.updated events with one text part;
// errors become session.error events with an UnknownError. The session and
// message ids come from opts and default to universal.PlaceholderID. Other
// events fail with universal.ErrUnsupported.
func UniversalEventToOpenCode(ev universal.EventData, opts ...universal.ReverseOption) (Event, error) {
	corr := universal.ResolveCorrelation(opts...)

	switch e := tagged.Deref(ev).(type) {
	case universal.MessageEvent:
		msg, ok := tagged.Deref(e.Message).(universal.ParsedMessage)
		if !ok {
			return nil, universal.Unsupported("unparsed message")
		}
		id := DefaultPartID
		if msg.ID != nil {
			id = *msg.ID
		}
		return MessagePartUpdated{Part: TextPart{
			PartRef: PartRef{ID: id, SessionID: corr.ThreadID, MessageID: corr.TurnID},
			Text:    msg.Text(),
		}}, nil

	case universal.ErrorEvent:
		return SessionError{
			SessionID: corr.ThreadID,
			Error:     NewUnknownError(e.Error.Message),
		}, nil

	default:
		return nil, universal.Unsupported("opencode event type")
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

// unknown keeps the whole event, type included, so that Raw decodes back
// with ParseEvent.
func unknown(e Event) universal.EventConversion {
	return universal.NewEventConversion(universal.NewUnknown(wireEvent{Type: e.EventType(), Properties: e}))
}

func partMetadata(ref PartRef, partType string) universal.Metadata {
	md := universal.NewMetadata()
	md.Set("itemType", partType)
	md.Set("messageId", ref.MessageID)
	return md
}

func parsed(id string, md universal.Metadata, parts []universal.Part) universal.ParsedMessage {
	msg := universal.ParsedMessage{Role: universal.RoleAssistant, Metadata: md, Parts: parts}
	if id != "" {
		msg.ID = universal.Ptr(id)
	}
	return msg
}
