package codex

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
	"github.com/bazelment/yoloswe/agentschema/universal"
)

// Item type tags for deltas that do not correspond to a ThreadItem type.
const itemTypeReasoningSummary = "reasoning_summary"

// DefaultMessageID names the agent message built by UniversalEventToCodex
// when the universal message has no id.
const DefaultMessageID = "msg"

// NotificationToUniversal converts a Codex notification into a universal
// event. It is defined for every Notification variant and never fails.
// Notifications that carry a thread id are correlated with it. Pointers to
// variants convert like the variants themselves.
func NotificationToUniversal(n Notification) universal.EventConversion {
	n = tagged.Deref(n)
	switch e := n.(type) {
	case nil:
		return universal.NewEventConversion(universal.UnknownEvent{})

	// Thread and turn lifecycle
	case ThreadStartedNotification:
		return started(NotifyThreadStarted, e.Thread).WithSession(e.Thread.ID)
	case TurnStartedNotification:
		return started(NotifyTurnStarted, e.Turn).WithSession(e.ThreadID)
	case TurnCompletedNotification:
		return turnCompletedToUniversal(e)

	// Item lifecycle
	case ItemStartedNotification:
		return message(ThreadItemToMessage(e.Item)).WithSession(e.ThreadID)
	case ItemCompletedNotification:
		return message(ThreadItemToMessage(e.Item)).WithSession(e.ThreadID)

	// Streaming deltas
	case AgentMessageDeltaNotification:
		return delta(ItemTypeAgentMessage, e.ItemID, e.TurnID, e.Delta).WithSession(e.ThreadID)
	case ReasoningTextDeltaNotification:
		return delta(ItemTypeReasoning, e.ItemID, e.TurnID, e.Delta).WithSession(e.ThreadID)
	case ReasoningSummaryTextDeltaNotification:
		return delta(itemTypeReasoningSummary, e.ItemID, e.TurnID, e.Delta).WithSession(e.ThreadID)
	case CommandExecutionOutputDeltaNotification:
		return delta(ItemTypeCommandExecution, e.ItemID, e.TurnID, e.Delta).WithSession(e.ThreadID)
	case FileChangeOutputDeltaNotification:
		return delta(ItemTypeFileChange, e.ItemID, e.TurnID, e.Delta).WithSession(e.ThreadID)

	case ErrorNotification:
		return universal.NewEventConversion(universal.ErrorEvent{Error: universal.CrashInfo{
			Message: e.Error.Message,
			Kind:    "error",
			Details: universal.OptionalRaw(e),
		}}).WithSession(e.ThreadID)

	// Thread-scoped updates with no universal equivalent
	case ThreadTokenUsageUpdatedNotification:
		return unknown(n).WithSession(e.ThreadID)
	case TurnDiffUpdatedNotification:
		return unknown(n).WithSession(e.ThreadID)
	case TurnPlanUpdatedNotification:
		return unknown(n).WithSession(e.ThreadID)
	case TerminalInteractionNotification:
		return unknown(n).WithSession(e.ThreadID)
	case McpToolCallProgressNotification:
		return unknown(n).WithSession(e.ThreadID)
	case ReasoningSummaryPartAddedNotification:
		return unknown(n).WithSession(e.ThreadID)
	case ThreadCompactedNotification:
		return unknown(n).WithSession(e.ThreadID)

	// Account, auth and configuration
	case AccountUpdatedNotification,
		AccountRateLimitsUpdatedNotification,
		AccountLoginCompletedNotification,
		McpServerOauthLoginCompletedNotification,
		AuthStatusChangeNotification,
		LoginChatGptCompleteNotification,
		SessionConfiguredNotification,
		DeprecationNoticeNotification,
		ConfigWarningNotification,
		WindowsWorldWritableWarningNotification:
		return unknown(n)
	case RawResponseItemCompletedNotification:
		return unknown(n).WithSession(e.ThreadID)

	default:
		panic(fmt.Sprintf("codex: no universal mapping for %T", n))
	}
}

// turnCompletedToUniversal reduces the turn to its last item. A turn without
// items has nothing to show and is kept verbatim.
func turnCompletedToUniversal(e TurnCompletedNotification) universal.EventConversion {
	if len(e.Turn.Items) == 0 {
		return unknown(e).WithSession(e.ThreadID)
	}
	last := e.Turn.Items[len(e.Turn.Items)-1]
	return message(ThreadItemToMessage(last)).WithSession(e.ThreadID)
}

// TurnItemsToMessages converts every item of a turn, in order.
func TurnItemsToMessages(turn Turn) []universal.Message {
	msgs := make([]universal.Message, 0, len(turn.Items))
	for _, item := range turn.Items {
		msgs = append(msgs, ThreadItemToMessage(item))
	}
	return msgs
}

// ThreadItemToMessage converts one thread item into a universal message.
func ThreadItemToMessage(item ThreadItem) universal.Message {
	item = tagged.Deref(item)
	switch it := item.(type) {
	case nil:
		return universal.UnparsedMessage{Raw: json.RawMessage("null"), Error: "missing thread item"}
	case UserMessageItem:
		parts := make([]universal.Part, 0, len(it.Content))
		for _, in := range it.Content {
			parts = append(parts, userInputToPart(in))
		}
		return parsed(universal.RoleUser, it.ID, universal.Metadata{}, parts)
	case AgentMessageItem:
		return parsed(universal.RoleAssistant, it.ID, itemMetadata(ItemTypeAgentMessage),
			[]universal.Part{universal.TextPart{Text: it.Text}})
	case ReasoningItem:
		md := itemMetadata(ItemTypeReasoning)
		if len(it.Summary) > 0 {
			md.Set("summary", it.Summary)
		}
		parts := make([]universal.Part, 0, len(it.Content))
		for _, text := range it.Content {
			parts = append(parts, universal.TextPart{Text: text})
		}
		return parsed(universal.RoleAssistant, it.ID, md, parts)
	case CommandExecutionItem:
		md := itemMetadata(ItemTypeCommandExecution)
		md.Set("command", it.Command)
		md.Set("cwd", it.Cwd)
		md.Set("status", it.Status.String())
		if it.ExitCode != nil {
			md.Set("exitCode", *it.ExitCode)
		}
		if it.DurationMs != nil {
			md.Set("durationMs", *it.DurationMs)
		}
		parts := []universal.Part{}
		if it.AggregatedOutput != nil {
			parts = append(parts, universal.TextPart{Text: *it.AggregatedOutput})
		}
		return parsed(universal.RoleAssistant, it.ID, md, parts)
	case FileChangeItem:
		md := itemMetadata(ItemTypeFileChange)
		md.Set("status", it.Status.String())
		parts := make([]universal.Part, 0, len(it.Changes))
		for _, change := range it.Changes {
			parts = append(parts, universal.UnknownPart{Raw: universal.RawValue(change)})
		}
		return parsed(universal.RoleAssistant, it.ID, md, parts)
	case McpToolCallItem:
		return mcpToolCallToMessage(it)
	case CollabAgentToolCallItem:
		md := itemMetadata(ItemTypeCollabAgentToolCall)
		md.Set("tool", it.Tool.String())
		md.Set("senderThreadId", it.SenderThreadID)
		md.Set("status", it.Status.String())
		parts := []universal.Part{}
		if it.Prompt != nil {
			parts = append(parts, universal.TextPart{Text: *it.Prompt})
		}
		return parsed(universal.RoleAssistant, it.ID, md, parts)
	case WebSearchItem:
		return parsed(universal.RoleAssistant, it.ID, itemMetadata(ItemTypeWebSearch),
			[]universal.Part{universal.TextPart{Text: it.Query}})
	case ImageViewItem:
		return parsed(universal.RoleAssistant, it.ID, itemMetadata(ItemTypeImageView),
			[]universal.Part{universal.ImagePart{Source: universal.PathSource{Path: it.Path}}})
	case EnteredReviewModeItem:
		return reviewModeToMessage(it.ID, it.Review, true)
	case ExitedReviewModeItem:
		return reviewModeToMessage(it.ID, it.Review, false)
	default:
		panic(fmt.Sprintf("codex: no message mapping for %T", item))
	}
}

func userInputToPart(in UserInput) universal.Part {
	in = tagged.Deref(in)
	switch v := in.(type) {
	case TextInput:
		return universal.TextPart{Text: v.Text}
	case ImageInput:
		return universal.ImagePart{Source: universal.URLSource{URL: v.ImageURL}}
	case LocalImageInput:
		return universal.ImagePart{Source: universal.PathSource{Path: v.Path}}
	case SkillInput:
		return universal.UnknownPart{Raw: universal.RawValue(v)}
	case nil:
		return universal.UnknownPart{Raw: json.RawMessage("null")}
	default:
		panic(fmt.Sprintf("codex: no part mapping for %T", in))
	}
}

// mcpToolCallToMessage always yields [ToolCall, ToolResult]. The result
// output is the result when present, otherwise the error.
func mcpToolCallToMessage(it McpToolCallItem) universal.Message {
	md := itemMetadata(ItemTypeMcpToolCall)
	md.Set("server", it.Server)
	md.Set("status", it.Status.String())

	output := json.RawMessage("null")
	switch {
	case it.Result != nil:
		output = universal.RawValue(it.Result)
	case it.Error != nil:
		output = universal.RawValue(it.Error)
	}
	input := it.Arguments
	if len(input) == 0 {
		input = json.RawMessage("null")
	}

	return parsed(universal.RoleAssistant, it.ID, md, []universal.Part{
		universal.ToolCallPart{ID: universal.Ptr(it.ID), Name: it.Tool, Input: input},
		universal.ToolResultPart{
			ID:      universal.Ptr(it.ID),
			Name:    universal.Ptr(it.Tool),
			Output:  output,
			IsError: universal.Ptr(it.Error != nil),
		},
	})
}

func reviewModeToMessage(id, review string, entered bool) universal.Message {
	itemType := ItemTypeExitedReviewMode
	if entered {
		itemType = ItemTypeEnteredReviewMode
	}
	md := itemMetadata(itemType)
	md.Set("review", review)
	return parsed(universal.RoleAssistant, id, md, []universal.Part{})
}

// UniversalEventToCodex converts a universal event back into a Codex
// notification. Messages become item/completed notifications carrying an
// agentMessage with the message text; errors become error notifications that
// will not be retried. Thread and turn ids come from opts and default to
// universal.PlaceholderID. Other events fail with universal.ErrUnsupported.
func UniversalEventToCodex(ev universal.EventData, opts ...universal.ReverseOption) (Notification, error) {
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
		return ItemCompletedNotification{
			Item:     AgentMessageItem{ID: id, Text: msg.Text()},
			ThreadID: corr.ThreadID,
			TurnID:   corr.TurnID,
		}, nil

	case universal.ErrorEvent:
		return ErrorNotification{
			Error: TurnError{
				Message:           e.Error.Message,
				AdditionalDetails: additionalDetails(e.Error.Details),
			},
			ThreadID:  corr.ThreadID,
			TurnID:    corr.TurnID,
			WillRetry: false,
		}, nil

	default:
		return nil, universal.Unsupported("codex event type")
	}
}

// additionalDetails finds the string additionalDetails in error details,
// which are usually an encoded ErrorNotification.
func additionalDetails(details json.RawMessage) *string {
	if len(details) == 0 {
		return nil
	}
	for _, path := range []string{"error.additionalDetails", "additionalDetails"} {
		if res := gjson.GetBytes(details, path); res.Type == gjson.String {
			return universal.Ptr(res.Str)
		}
	}
	return nil
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

// unknown keeps the whole notification, method included, so that Raw decodes
// back with ParseNotification.
func unknown(n Notification) universal.EventConversion {
	return universal.NewEventConversion(universal.NewUnknown(wireNotification{Method: n.Method(), Params: n}))
}

func delta(itemType, itemID, turnID, text string) universal.EventConversion {
	md := universal.NewMetadata()
	md.Set("delta", true)
	md.Set("itemType", itemType)
	md.Set("turnId", turnID)
	return message(parsed(universal.RoleAssistant, itemID, md, []universal.Part{universal.TextPart{Text: text}}))
}

func itemMetadata(itemType string) universal.Metadata {
	md := universal.NewMetadata()
	md.Set("itemType", itemType)
	return md
}

func parsed(role, id string, md universal.Metadata, parts []universal.Part) universal.ParsedMessage {
	return universal.ParsedMessage{
		Role:     role,
		ID:       universal.Ptr(id),
		Metadata: md,
		Parts:    parts,
	}
}
