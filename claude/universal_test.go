package claude

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazelment/yoloswe/agentschema/universal"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func mustParse(t *testing.T, line string) Notification {
	t.Helper()
	n, err := ParseNotification([]byte(line))
	require.NoError(t, err)
	return n
}

func messageOf(t *testing.T, conv universal.EventConversion) universal.Message {
	t.Helper()
	ev, ok := conv.Data.(universal.MessageEvent)
	require.True(t, ok, "expected message event, got %T", conv.Data)
	return ev.Message
}

func TestNotificationToUniversal_EveryType(t *testing.T) {
	for typ, n := range sampleNotifications() {
		t.Run(typ, func(t *testing.T) {
			var conv universal.EventConversion
			require.NotPanics(t, func() { conv = NotificationToUniversal(n) })
			require.NotNil(t, conv.Data)

			if controlTypes[typ] {
				assert.Equal(t, universal.EventTypeUnknown, conv.Data.EventType())
				assert.Nil(t, conv.SessionID)
				return
			}
			require.NotNil(t, conv.SessionID)
			assert.Equal(t, "sess-1", *conv.SessionID)
		})
	}
}

// pointerTo returns a pointer to a copy of v, typed as the same interface.
func pointerTo[T any](t *testing.T, v T) T {
	t.Helper()
	p := reflect.New(reflect.TypeOf(v))
	p.Elem().Set(reflect.ValueOf(v))
	ptr, ok := p.Interface().(T)
	require.True(t, ok, "*%T does not implement the interface", v)
	return ptr
}

func TestNotificationToUniversal_PointerVariants(t *testing.T) {
	for typ, n := range sampleNotifications() {
		t.Run(typ, func(t *testing.T) {
			var got universal.EventConversion
			require.NotPanics(t, func() { got = NotificationToUniversal(pointerTo(t, n)) })
			assert.Equal(t, mustJSON(t, NotificationToUniversal(n)), mustJSON(t, got))
		})
	}

	conv := NotificationToUniversal(&AssistantMessage{
		SessionID: "sess-1",
		Message: MessageContent{
			Role:    universal.RoleAssistant,
			Content: blocks(&TextBlock{Text: "hi"}, &ToolUseBlock{ID: "toolu_1", Name: "Read"}),
		},
	})
	msg, ok := messageOf(t, conv).(universal.ParsedMessage)
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Text())
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, universal.ToolCallPart{ID: universal.Ptr("toolu_1"), Name: "Read", Input: json.RawMessage("{}")}, msg.Parts[1])
	assert.Equal(t, "sess-1", conv.Session())

	var nilResult *ResultMessage
	assert.Equal(t, universal.EventTypeUnknown, NotificationToUniversal(nilResult).Data.EventType())
	assert.Equal(t, universal.UnknownPart{Raw: json.RawMessage("null")}, blockToPart((*TextBlock)(nil)))
}

func TestNotificationToUniversal_UnknownIsLossless(t *testing.T) {
	lines := []string{
		`{"type":"system","subtype":"hook_response","session_id":"sess-1","uuid":"u-9"}`,
		`{"type":"stream_event","event":{"type":"message_stop"},"parent_tool_use_id":null,"session_id":"sess-1"}`,
		`{"type":"stream_event","event":{"type":"content_block_delta","index":0,"delta":{"type":"signature_delta","signature":"abc"}},"parent_tool_use_id":null,"session_id":"sess-1"}`,
		`{"type":"stream_event","event":{"type":"ping"},"parent_tool_use_id":null,"session_id":"sess-1"}`,
	}
	for _, line := range lines {
		n := mustParse(t, line)
		conv := NotificationToUniversal(n)
		ev, ok := conv.Data.(universal.UnknownEvent)
		require.True(t, ok, line)
		assert.Equal(t, "sess-1", conv.Session())

		back, err := ParseNotification(ev.Raw)
		require.NoError(t, err)
		assert.Equal(t, n, back)
	}

	for typ, n := range sampleNotifications() {
		ev, ok := NotificationToUniversal(n).Data.(universal.UnknownEvent)
		if !ok {
			continue
		}
		t.Run(typ, func(t *testing.T) {
			back, err := ParseNotification(ev.Raw)
			require.NoError(t, err)
			assert.Equal(t, n, back)
		})
	}
}

func TestNotificationToUniversal_SystemInit(t *testing.T) {
	n := sampleNotifications()[TypeSystem]
	conv := NotificationToUniversal(n)

	ev, ok := conv.Data.(universal.StartedEvent)
	require.True(t, ok)
	assert.Equal(t, LabelSystemInit, ev.Started.Message)
	assert.JSONEq(t, mustJSON(t, n), string(ev.Started.Details))
}

func TestNotificationToUniversal_Assistant(t *testing.T) {
	conv := NotificationToUniversal(sampleNotifications()[TypeAssistant])

	assert.JSONEq(t, `{
		"kind": "parsed", "role": "assistant", "id": "msg_01",
		"metadata": {"itemType": "assistantMessage", "model": "claude-sonnet-4-5", "stopReason": "tool_use"},
		"parts": [
			{"type": "text", "text": "Let me look."},
			{"type": "tool_call", "id": "toolu_1", "name": "Bash", "input": {"command": "ls"}}
		]
	}`, mustJSON(t, messageOf(t, conv)))
}

func TestNotificationToUniversal_UserToolResult(t *testing.T) {
	conv := NotificationToUniversal(sampleNotifications()[TypeUser])

	assert.JSONEq(t, `{
		"kind": "parsed", "role": "user", "id": "u-3",
		"metadata": {"itemType": "userMessage", "parentToolUseId": "toolu_0"},
		"parts": [{"type": "tool_result", "id": "toolu_1", "output": "file.txt", "isError": false}]
	}`, mustJSON(t, messageOf(t, conv)))
}

func TestNotificationToUniversal_StringContent(t *testing.T) {
	n := mustParse(t, `{"type":"user","message":{"role":"user","content":"hello there"},"parent_tool_use_id":null,"session_id":"sess-1"}`)

	msg, ok := messageOf(t, NotificationToUniversal(n)).(universal.ParsedMessage)
	require.True(t, ok)
	assert.Nil(t, msg.ID)
	assert.Equal(t, universal.RoleUser, msg.Role)
	assert.Equal(t, []universal.Part{universal.TextPart{Text: "hello there"}}, msg.Parts)
}

func TestNotificationToUniversal_BlockVariety(t *testing.T) {
	n := mustParse(t, `{"type":"assistant","session_id":"sess-1","parent_tool_use_id":null,"message":{"role":"assistant","content":[
		{"type":"thinking","thinking":"hmm","signature":"sig"},
		{"type":"redacted_thinking","data":"xyz"},
		{"type":"image","source":{"type":"base64","media_type":"image/png","data":"iVBOR"}},
		{"type":"image","source":{"type":"url","url":"https://example.com/cat.png"}},
		{"type":"server_tool_use","id":"srv_1","name":"web_search"}
	]}}`)

	assert.JSONEq(t, `{
		"kind": "parsed", "role": "assistant", "metadata": {"itemType": "assistantMessage"},
		"parts": [
			{"type": "unknown", "raw": {"type": "thinking", "thinking": "hmm", "signature": "sig"}},
			{"type": "unknown", "raw": {"type": "redacted_thinking", "data": "xyz"}},
			{"type": "image", "source": {"type": "url", "url": "data:image/png;base64,iVBOR"}, "mimeType": "image/png"},
			{"type": "image", "source": {"type": "url", "url": "https://example.com/cat.png"}},
			{"type": "unknown", "raw": {"type": "server_tool_use", "id": "srv_1", "name": "web_search"}}
		]
	}`, mustJSON(t, messageOf(t, NotificationToUniversal(n))))
}

func TestNotificationToUniversal_MalformedContent(t *testing.T) {
	n := mustParse(t, `{"type":"assistant","session_id":"sess-1","parent_tool_use_id":null,"message":{"role":"assistant","content":[{"text":"no type"}]}}`)

	conv := NotificationToUniversal(n)
	msg, ok := messageOf(t, conv).(universal.UnparsedMessage)
	require.True(t, ok)
	assert.NotEmpty(t, msg.Error)
	assert.Equal(t, "sess-1", conv.Session())
}

func TestNotificationToUniversal_Result(t *testing.T) {
	conv := NotificationToUniversal(sampleNotifications()[TypeResult])

	assert.JSONEq(t, `{
		"kind": "parsed", "role": "assistant", "id": "u-4",
		"metadata": {"itemType": "result", "subtype": "success", "numTurns": 2, "durationMs": 1200, "totalCostUsd": 0.25},
		"parts": [{"type": "text", "text": "Done"}]
	}`, mustJSON(t, messageOf(t, conv)))
}

func TestNotificationToUniversal_ResultError(t *testing.T) {
	tests := []struct {
		name    string
		result  ResultMessage
		message string
	}{
		{
			name:    "with text",
			result:  ResultMessage{Subtype: SubtypeErrorDuringExecution, SessionID: "sess-1", Result: "API overloaded", IsError: true},
			message: "API overloaded",
		},
		{
			name:    "subtype only",
			result:  ResultMessage{Subtype: "error_max_turns", SessionID: "sess-1", IsError: true},
			message: "error_max_turns",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conv := NotificationToUniversal(tc.result)
			ev, ok := conv.Data.(universal.ErrorEvent)
			require.True(t, ok)
			assert.Equal(t, tc.message, ev.Error.Message)
			assert.Equal(t, "error", ev.Error.Kind)
			assert.JSONEq(t, mustJSON(t, tc.result), string(ev.Error.Details))
			assert.Equal(t, "sess-1", conv.Session())
		})
	}
}

func TestNotificationToUniversal_StreamDeltas(t *testing.T) {
	tests := []struct {
		delta    string
		itemType string
		text     string
	}{
		{delta: `{"type":"text_delta","text":"Hel"}`, itemType: ItemTypeText, text: "Hel"},
		{delta: `{"type":"thinking_delta","thinking":"so"}`, itemType: ItemTypeThinking, text: "so"},
		{delta: `{"type":"input_json_delta","partial_json":"{\"a\""}`, itemType: ItemTypeToolInput, text: `{"a"`},
	}
	for _, tc := range tests {
		t.Run(tc.itemType, func(t *testing.T) {
			n := StreamEvent{
				SessionID: "sess-1",
				UUID:      "u-5",
				Event:     json.RawMessage(`{"type":"content_block_delta","index":2,"delta":` + tc.delta + `}`),
			}
			conv := NotificationToUniversal(n)
			msg, ok := messageOf(t, conv).(universal.ParsedMessage)
			require.True(t, ok)

			assert.Equal(t, "u-5", *msg.ID)
			assert.Equal(t, []string{"delta", "itemType", "index"}, msg.Metadata.Keys())
			assert.JSONEq(t, `{"delta":true,"itemType":"`+tc.itemType+`","index":2}`, mustJSON(t, msg.Metadata))
			assert.Equal(t, []universal.Part{universal.TextPart{Text: tc.text}}, msg.Parts)
			assert.Equal(t, "sess-1", conv.Session())
		})
	}
}

func TestNotificationToUniversal_MessageStart(t *testing.T) {
	n := StreamEvent{SessionID: "sess-1", Event: json.RawMessage(`{"type":"message_start","message":{"id":"msg_02","role":"assistant","content":[]}}`)}

	ev, ok := NotificationToUniversal(n).Data.(universal.StartedEvent)
	require.True(t, ok)
	assert.Equal(t, LabelMessageStart, ev.Started.Message)
	assert.JSONEq(t, `{"id":"msg_02","role":"assistant","content":[]}`, string(ev.Started.Details))
}

func TestUniversalEventToClaude_Message(t *testing.T) {
	n, err := UniversalEventToClaude(universal.MessageEvent{Message: universal.ParsedMessage{
		Role:  universal.RoleAssistant,
		Parts: []universal.Part{universal.TextPart{Text: "hi"}, universal.TextPart{Text: "there"}},
	}})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "assistant", "parent_tool_use_id": null, "session_id": "unknown",
		"message": {"type": "message", "role": "assistant", "content": [{"type": "text", "text": "hi\nthere"}]}
	}`, mustJSON(t, n))
}

func TestUniversalEventToClaude_RoundTrip(t *testing.T) {
	n, err := UniversalEventToClaude(universal.MessageEvent{Message: universal.ParsedMessage{
		ID:    universal.Ptr("msg_7"),
		Parts: []universal.Part{universal.TextPart{Text: "hello"}},
	}}, universal.WithCorrelation("sess-9", ""))
	require.NoError(t, err)

	conv := NotificationToUniversal(n)
	msg, ok := messageOf(t, conv).(universal.ParsedMessage)
	require.True(t, ok)
	assert.Equal(t, "msg_7", *msg.ID)
	assert.Equal(t, "hello", msg.Text())
	assert.Equal(t, "sess-9", conv.Session())
}

func TestUniversalEventToClaude_PointerEvent(t *testing.T) {
	n, err := UniversalEventToClaude(&universal.ErrorEvent{Error: universal.CrashInfo{Message: "boom"}})
	require.NoError(t, err)
	assert.Equal(t, "boom", n.(ResultMessage).Result)

	n, err = UniversalEventToClaude(universal.MessageEvent{Message: &universal.ParsedMessage{
		Parts: []universal.Part{&universal.TextPart{Text: "hello"}},
	}})
	require.NoError(t, err)
	msg, ok := messageOf(t, NotificationToUniversal(n)).(universal.ParsedMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text())
}

func TestUniversalEventToClaude_Error(t *testing.T) {
	n, err := UniversalEventToClaude(universal.ErrorEvent{Error: universal.CrashInfo{Message: "boom"}})
	require.NoError(t, err)
	assert.Equal(t, ResultMessage{
		Subtype:   SubtypeErrorDuringExecution,
		SessionID: universal.PlaceholderID,
		Result:    "boom",
		IsError:   true,
	}, n)
}

func TestUniversalEventToClaude_Unsupported(t *testing.T) {
	for _, ev := range []universal.EventData{
		universal.StartedEvent{Started: universal.Started{Message: LabelSystemInit}},
		universal.UnknownEvent{Raw: json.RawMessage(`{}`)},
		universal.MessageEvent{Message: universal.UnparsedMessage{Raw: json.RawMessage(`1`)}},
		nil,
	} {
		n, err := UniversalEventToClaude(ev)
		assert.Nil(t, n)
		assert.True(t, universal.IsUnsupported(err))
	}
}

func TestNotificationToUniversal_Concurrent(t *testing.T) {
	samples := sampleNotifications()
	want := make(map[string]string, len(samples))
	for typ, n := range samples {
		want[typ] = mustJSON(t, NotificationToUniversal(n))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for typ, n := range samples {
			wg.Add(1)
			go func(typ string, n Notification) {
				defer wg.Done()
				b, err := json.Marshal(NotificationToUniversal(n))
				assert.NoError(t, err)
				assert.Equal(t, want[typ], string(b))
			}(typ, n)
		}
	}
	wg.Wait()
}
