package claude

import "encoding/json"

func ptr[T any](v T) *T { return &v }

func blocks(b ...ContentBlock) FlexibleContent {
	fc, err := BlockContent(b...)
	if err != nil {
		panic(err)
	}
	return fc
}

// sampleNotifications returns one value per message type.
func sampleNotifications() map[string]Notification {
	return map[string]Notification{
		TypeSystem: SystemMessage{
			Subtype: SubtypeInit, SessionID: "sess-1", UUID: "u-1",
			Model: "claude-sonnet-4-5", CWD: "/work", PermissionMode: "default",
			Tools:      []string{"Bash", "Read"},
			MCPServers: []MCPServer{{Name: "fs", Status: "connected"}},
		},
		TypeAssistant: AssistantMessage{SessionID: "sess-1", UUID: "u-2", Message: MessageContent{
			ID: "msg_01", Type: "message", Model: "claude-sonnet-4-5", Role: "assistant",
			StopReason: ptr("tool_use"),
			Content: blocks(
				TextBlock{Text: "Let me look."},
				ToolUseBlock{ID: "toolu_1", Name: "Bash", Input: json.RawMessage(`{"command":"ls"}`)},
			),
		}},
		TypeUser: UserMessage{SessionID: "sess-1", UUID: "u-3", ParentToolUseID: ptr("toolu_0"), Message: MessageContent{
			Role: "user",
			Content: blocks(ToolResultBlock{
				ToolUseID: "toolu_1", Content: json.RawMessage(`"file.txt"`), IsError: ptr(false),
			}),
		}},
		TypeResult: ResultMessage{
			Subtype: "success", SessionID: "sess-1", UUID: "u-4", Result: "Done",
			TotalCostUSD: 0.25, NumTurns: 2, DurationAPIMs: 900, DurationMs: 1200,
		},
		TypeStreamEvent: StreamEvent{SessionID: "sess-1", UUID: "u-5",
			Event: json.RawMessage(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hel"}}`),
		},
		TypeControlRequest: ControlRequest{RequestID: "req-1",
			Request: json.RawMessage(`{"subtype":"can_use_tool","tool_name":"Bash","input":{"command":"ls"}}`),
		},
		TypeControlResponse: ControlResponse{
			Response: json.RawMessage(`{"subtype":"success","request_id":"req-1"}`),
		},
		TypeControlCancelRequest: ControlCancelRequest{RequestID: "req-1"},
		TypeAuthStatus: AuthStatus{
			SessionID: "sess-1", IsAuthenticating: true, Output: []string{"Opening browser"},
		},
	}
}

// controlTypes carry no session.
var controlTypes = map[string]bool{
	TypeControlRequest:       true,
	TypeControlResponse:      true,
	TypeControlCancelRequest: true,
}
