package opencode

import "encoding/json"

func ptr[T any](v T) *T { return &v }

var ref = PartRef{ID: "prt-1", SessionID: "ses-1", MessageID: "msg-1"}

// sampleEvents returns one value per event type.
func sampleEvents() map[string]Event {
	session := Session{
		ID: "ses-1", ProjectID: "proj-1", Directory: "/work", Title: "Fix build", Version: "0.15.0",
		Time: SessionTime{Created: 1700000000000, Updated: 1700000001000},
	}
	return map[string]Event{
		EventSessionCreated: SessionCreated{Info: session},
		EventSessionUpdated: SessionUpdated{Info: session},
		EventSessionDeleted: SessionDeleted{Info: session},
		EventSessionStatus: SessionStatus{
			SessionID: "ses-1", Status: json.RawMessage(`{"type":"busy"}`),
		},
		EventSessionIdle:      SessionIdle{SessionID: "ses-1"},
		EventSessionCompacted: SessionCompacted{SessionID: "ses-1"},
		EventSessionDiff: SessionDiff{SessionID: "ses-1", Diff: []FileDiff{
			{Path: "main.go", Additions: 3, Deletions: 1},
		}},
		EventSessionError: SessionError{SessionID: "ses-1", Error: NewUnknownError("rate limited")},
		EventMessageUpdated: MessageUpdated{Info: Message{
			ID: "msg-1", SessionID: "ses-1", Role: "assistant", ModelID: "claude-sonnet-4-5",
			ProviderID: "anthropic", Mode: "build", Finish: ptr("stop"), Cost: 0.5,
			Time: MessageTime{Created: 1700000000000},
		}},
		EventMessageRemoved: MessageRemoved{SessionID: "ses-1", MessageID: "msg-1"},
		EventMessagePartUpdated: MessagePartUpdated{
			Part:  TextPart{PartRef: ref, Text: "Hello"},
			Delta: "lo",
		},
		EventMessagePartRemoved: MessagePartRemoved{SessionID: "ses-1", MessageID: "msg-1", PartID: "prt-1"},
		EventPermissionUpdated: PermissionUpdated{
			ID: "per-1", SessionID: "ses-1", PermissionType: "bash", Title: "Run ls", Pattern: []string{"ls *"},
		},
		EventPermissionReplied: PermissionReplied{PermissionID: "per-1", SessionID: "ses-1", Response: "once"},
		EventTodoUpdated: TodoUpdated{SessionID: "ses-1", Todos: []Todo{
			{ID: "1", Content: "write tests", Status: "pending", Priority: "high"},
		}},
		EventCommandExecuted:             CommandExecuted{Name: "init", SessionID: "ses-1", Arguments: "", MessageID: "msg-1"},
		EventServerConnected:             ServerConnected{},
		EventInstallationUpdated:         InstallationUpdated{Version: "0.15.1"},
		EventInstallationUpdateAvailable: InstallationUpdateAvailable{Version: "0.16.0"},
		EventLspClientDiagnostics:        LspClientDiagnostics{ServerID: "gopls", Path: "/work/main.go"},
		EventLspUpdated:                  LspUpdated{},
		EventFileEdited:                  FileEdited{File: "/work/main.go"},
		EventFileWatcherUpdated:          FileWatcherUpdated{File: "/work/go.mod", Event: "change"},
	}
}

// serverEvents carry no session.
var serverEvents = map[string]bool{
	EventServerConnected:             true,
	EventInstallationUpdated:         true,
	EventInstallationUpdateAvailable: true,
	EventLspClientDiagnostics:        true,
	EventLspUpdated:                  true,
	EventFileEdited:                  true,
	EventFileWatcherUpdated:          true,
}

// sampleParts returns one value per part type.
func sampleParts() map[string]Part {
	return map[string]Part{
		PartTypeText:      TextPart{PartRef: ref, Text: "Hello"},
		PartTypeReasoning: ReasoningPart{PartRef: ref, Text: "Thinking it over"},
		PartTypeTool: ToolPart{
			PartRef: ref, ToolCallID: "call-1", ToolName: "bash", State: ToolStateCompleted,
			Input: json.RawMessage(`{"command":"ls"}`), Output: ptr("main.go"),
		},
		PartTypeFile:       FilePart{PartRef: ref, Filename: "shot.png", MediaType: "image/png", URL: "file:///tmp/shot.png"},
		PartTypeStepStart:  StepStartPart{PartRef: ref, Snapshot: ptr("abc123")},
		PartTypeStepFinish: StepFinishPart{PartRef: ref, Reason: "stop", Cost: 0.01},
		PartTypeSnapshot:   SnapshotPart{PartRef: ref, Snapshot: "abc123"},
		PartTypePatch:      PatchPart{PartRef: ref, Hash: "def456", Files: []string{"main.go"}},
		PartTypeAgent:      AgentPart{PartRef: ref, Name: "build"},
		PartTypeRetry:      RetryPart{PartRef: ref, Attempt: 2, Error: *NewUnknownError("overloaded")},
		PartTypeCompaction: CompactionPart{PartRef: ref, Auto: true},
	}
}
