package claude

import (
	"encoding/json"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Stream event types, the "type" discriminant of StreamEvent.Event.
const (
	StreamEventMessageStart      = "message_start"
	StreamEventContentBlockStart = "content_block_start"
	StreamEventContentBlockDelta = "content_block_delta"
	StreamEventContentBlockStop  = "content_block_stop"
	StreamEventMessageDelta      = "message_delta"
	StreamEventMessageStop       = "message_stop"
)

// Delta types, the "type" discriminant of ContentBlockDeltaEvent.Delta.
const (
	DeltaTypeText      = "text_delta"
	DeltaTypeThinking  = "thinking_delta"
	DeltaTypeInputJSON = "input_json_delta"
	DeltaTypeSignature = "signature_delta"
)

// StreamEventData is the inner event of a StreamEvent.
type StreamEventData interface {
	EventType() string
}

// MessageStartEvent starts a new message.
type MessageStartEvent struct {
	Message MessageContent `json:"message"`
}

// ContentBlockStartEvent starts a content block.
type ContentBlockStartEvent struct {
	ContentBlock json.RawMessage `json:"content_block"`
	Index        int             `json:"index"`
}

// ContentBlockDeltaEvent contains incremental content.
type ContentBlockDeltaEvent struct {
	Delta json.RawMessage `json:"delta"`
	Index int             `json:"index"`
}

// ContentBlockStopEvent marks block completion.
type ContentBlockStopEvent struct {
	Index int `json:"index"`
}

// MessageDelta contains message metadata updates.
type MessageDelta struct {
	StopReason   *string `json:"stop_reason"`
	StopSequence *string `json:"stop_sequence"`
}

// MessageDeltaEvent updates message metadata.
type MessageDeltaEvent struct {
	Delta MessageDelta `json:"delta"`
	Usage Usage        `json:"usage"`
}

// MessageStopEvent marks message completion.
type MessageStopEvent struct{}

func (MessageStartEvent) EventType() string      { return StreamEventMessageStart }
func (ContentBlockStartEvent) EventType() string { return StreamEventContentBlockStart }
func (ContentBlockDeltaEvent) EventType() string { return StreamEventContentBlockDelta }
func (ContentBlockStopEvent) EventType() string  { return StreamEventContentBlockStop }
func (MessageDeltaEvent) EventType() string      { return StreamEventMessageDelta }
func (MessageStopEvent) EventType() string       { return StreamEventMessageStop }

// ParsedBlock parses the content_block field of a ContentBlockStartEvent.
func (e ContentBlockStartEvent) ParsedBlock() (ContentBlock, error) {
	return ParseContentBlock(e.ContentBlock)
}

// ParsedDelta parses the delta field of a ContentBlockDeltaEvent.
func (e ContentBlockDeltaEvent) ParsedDelta() (DeltaData, error) {
	return ParseContentBlockDelta(e.Delta)
}

var streamEventDecoders = map[string]func([]byte) (StreamEventData, error){
	StreamEventMessageStart:      tagged.As[MessageStartEvent, StreamEventData],
	StreamEventContentBlockStart: tagged.As[ContentBlockStartEvent, StreamEventData],
	StreamEventContentBlockDelta: tagged.As[ContentBlockDeltaEvent, StreamEventData],
	StreamEventContentBlockStop:  tagged.As[ContentBlockStopEvent, StreamEventData],
	StreamEventMessageDelta:      tagged.As[MessageDeltaEvent, StreamEventData],
	StreamEventMessageStop:       tagged.As[MessageStopEvent, StreamEventData],
}

// ParseStreamEvent parses the inner event from a StreamEvent.
func ParseStreamEvent(data json.RawMessage) (StreamEventData, error) {
	return tagged.Decode(data, "type", streamEventDecoders)
}

// DeltaData is the payload of a content block delta.
type DeltaData interface {
	DeltaType() string
}

// TextDelta is a delta containing text.
type TextDelta struct {
	Text string `json:"text"`
}

// ThinkingDelta is a delta containing thinking.
type ThinkingDelta struct {
	Thinking string `json:"thinking"`
}

// InputJSONDelta is a delta containing partial JSON for tool input.
type InputJSONDelta struct {
	PartialJSON string `json:"partial_json"`
}

// SignatureDelta carries the signature of a thinking block.
type SignatureDelta struct {
	Signature string `json:"signature"`
}

func (TextDelta) DeltaType() string      { return DeltaTypeText }
func (ThinkingDelta) DeltaType() string  { return DeltaTypeThinking }
func (InputJSONDelta) DeltaType() string { return DeltaTypeInputJSON }
func (SignatureDelta) DeltaType() string { return DeltaTypeSignature }

var deltaDecoders = map[string]func([]byte) (DeltaData, error){
	DeltaTypeText:      tagged.As[TextDelta, DeltaData],
	DeltaTypeThinking:  tagged.As[ThinkingDelta, DeltaData],
	DeltaTypeInputJSON: tagged.As[InputJSONDelta, DeltaData],
	DeltaTypeSignature: tagged.As[SignatureDelta, DeltaData],
}

// ParseContentBlockDelta parses the inner delta from a ContentBlockDeltaEvent.
func ParseContentBlockDelta(data json.RawMessage) (DeltaData, error) {
	return tagged.Decode(data, "type", deltaDecoders)
}
