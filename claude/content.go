package claude

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Content block types, the "type" discriminant of a ContentBlock.
const (
	BlockTypeText             = "text"
	BlockTypeThinking         = "thinking"
	BlockTypeRedactedThinking = "redacted_thinking"
	BlockTypeToolUse          = "tool_use"
	BlockTypeToolResult       = "tool_result"
	BlockTypeImage            = "image"
)

// ContentBlock is one block of an assistant or user message.
type ContentBlock interface {
	BlockType() string
	isContentBlock()
}

// TextBlock is plain text.
type TextBlock struct {
	Text string `json:"text"`
}

// ThinkingBlock is extended-thinking output.
type ThinkingBlock struct {
	Thinking  string `json:"thinking"`
	Signature string `json:"signature,omitempty"`
}

// RedactedThinkingBlock is thinking the API returned encrypted.
type RedactedThinkingBlock struct {
	Data string `json:"data"`
}

// ToolUseBlock is a tool invocation requested by the model.
type ToolUseBlock struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResultBlock carries the result of a tool invocation back to the model.
// Content is either a string or a list of blocks.
type ToolResultBlock struct {
	IsError   *bool           `json:"is_error,omitempty"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// ImageBlock is an inline or referenced image.
type ImageBlock struct {
	Source ImageSource `json:"source"`
}

// ImageSource is where an image comes from: "base64" with data and a media
// type, or "url".
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// UnknownBlock keeps a block whose type this package does not model.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (TextBlock) BlockType() string             { return BlockTypeText }
func (ThinkingBlock) BlockType() string         { return BlockTypeThinking }
func (RedactedThinkingBlock) BlockType() string { return BlockTypeRedactedThinking }
func (ToolUseBlock) BlockType() string          { return BlockTypeToolUse }
func (ToolResultBlock) BlockType() string       { return BlockTypeToolResult }
func (ImageBlock) BlockType() string            { return BlockTypeImage }
func (b UnknownBlock) BlockType() string        { return b.Type }

func (TextBlock) isContentBlock()             {}
func (ThinkingBlock) isContentBlock()         {}
func (RedactedThinkingBlock) isContentBlock() {}
func (ToolUseBlock) isContentBlock()          {}
func (ToolResultBlock) isContentBlock()       {}
func (ImageBlock) isContentBlock()            {}
func (UnknownBlock) isContentBlock()          {}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return tagged.Marshal("type", BlockTypeText, alias(b))
}

func (b ThinkingBlock) MarshalJSON() ([]byte, error) {
	type alias ThinkingBlock
	return tagged.Marshal("type", BlockTypeThinking, alias(b))
}

func (b RedactedThinkingBlock) MarshalJSON() ([]byte, error) {
	type alias RedactedThinkingBlock
	return tagged.Marshal("type", BlockTypeRedactedThinking, alias(b))
}

func (b ToolUseBlock) MarshalJSON() ([]byte, error) {
	type alias ToolUseBlock
	if b.Input == nil {
		b.Input = json.RawMessage("{}")
	}
	return tagged.Marshal("type", BlockTypeToolUse, alias(b))
}

func (b ToolResultBlock) MarshalJSON() ([]byte, error) {
	type alias ToolResultBlock
	return tagged.Marshal("type", BlockTypeToolResult, alias(b))
}

func (b ImageBlock) MarshalJSON() ([]byte, error) {
	type alias ImageBlock
	return tagged.Marshal("type", BlockTypeImage, alias(b))
}

// MarshalJSON writes the block exactly as it was read.
func (b UnknownBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

var blockDecoders = map[string]func([]byte) (ContentBlock, error){
	BlockTypeText:             tagged.As[TextBlock, ContentBlock],
	BlockTypeThinking:         tagged.As[ThinkingBlock, ContentBlock],
	BlockTypeRedactedThinking: tagged.As[RedactedThinkingBlock, ContentBlock],
	BlockTypeToolUse:          tagged.As[ToolUseBlock, ContentBlock],
	BlockTypeToolResult:       tagged.As[ToolResultBlock, ContentBlock],
	BlockTypeImage:            tagged.As[ImageBlock, ContentBlock],
}

// ParseContentBlock decodes a tagged content block. Blocks with a type this
// package does not model, such as server_tool_use, decode to UnknownBlock.
func ParseContentBlock(data []byte) (ContentBlock, error) {
	block, err := tagged.Decode(data, "type", blockDecoders)
	var unknown *tagged.UnknownTagError
	if errors.As(err, &unknown) {
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return UnknownBlock{Type: unknown.Tag, Raw: raw}, nil
	}
	return block, err
}

// ContentBlocks is a list of blocks that decodes each element by its tag.
type ContentBlocks []ContentBlock

// UnmarshalJSON implements json.Unmarshaler.
func (s *ContentBlocks) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*s = nil
		return nil
	}
	blocks := make(ContentBlocks, 0, len(raws))
	for i, raw := range raws {
		block, err := ParseContentBlock(raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}
	*s = blocks
	return nil
}

// FlexibleContent can be either a string or an array of content blocks.
type FlexibleContent struct {
	raw json.RawMessage
}

// TextContent returns content holding a plain string.
func TextContent(text string) FlexibleContent {
	b, _ := json.Marshal(text)
	return FlexibleContent{raw: b}
}

// BlockContent returns content holding blocks.
func BlockContent(blocks ...ContentBlock) (FlexibleContent, error) {
	if blocks == nil {
		blocks = []ContentBlock{}
	}
	b, err := json.Marshal(blocks)
	if err != nil {
		return FlexibleContent{}, fmt.Errorf("marshal content blocks: %w", err)
	}
	return FlexibleContent{raw: b}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	fc.raw = append(fc.raw[:0:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (fc FlexibleContent) MarshalJSON() ([]byte, error) {
	if fc.raw == nil {
		return []byte("null"), nil
	}
	return fc.raw, nil
}

// IsString returns true if the content is a string.
func (fc FlexibleContent) IsString() bool {
	if len(fc.raw) == 0 {
		return false
	}
	return fc.raw[0] == '"'
}

// AsString returns the content as a string (if it is one).
func (fc FlexibleContent) AsString() (string, bool) {
	if !fc.IsString() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(fc.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsBlocks returns the content as content blocks (if it is an array).
func (fc FlexibleContent) AsBlocks() (ContentBlocks, error) {
	if fc.IsString() || len(fc.raw) == 0 {
		return nil, fmt.Errorf("content is not a block list")
	}
	var blocks ContentBlocks
	if err := json.Unmarshal(fc.raw, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}
