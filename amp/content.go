package amp

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// Content block types, the "type" discriminant of a ContentBlock.
const (
	BlockTypeText       = "text"
	BlockTypeThinking   = "thinking"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// Tool run statuses.
const (
	ToolRunQueued         = "queued"
	ToolRunInProgress     = "in-progress"
	ToolRunDone           = "done"
	ToolRunError          = "error"
	ToolRunCancelled      = "cancelled"
	ToolRunRejectedByUser = "rejected-by-user"
)

// Message is one message of an Amp thread.
type Message struct {
	ID        string     `json:"id,omitempty"`
	Role      string     `json:"role"` // "user" | "assistant"
	Model     string     `json:"model,omitempty"`
	Content   Content    `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation listed beside the message content.
type ToolCall struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is message content: either a plain string or a list of blocks.
type Content struct {
	Text   string
	Blocks ContentBlocks
	IsText bool
}

// TextContent returns string content.
func TextContent(text string) Content {
	return Content{Text: text, IsText: true}
}

// BlockContent returns block content.
func BlockContent(blocks ...ContentBlock) Content {
	return Content{Blocks: blocks}
}

// AsBlocks returns the content as blocks. String content is a single text
// block.
func (c Content) AsBlocks() ContentBlocks {
	if c.IsText {
		return ContentBlocks{TextBlock{Text: c.Text}}
	}
	return c.Blocks
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsText {
		return json.Marshal(c.Text)
	}
	return json.Marshal(c.Blocks)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Content) UnmarshalJSON(data []byte) error {
	switch gjson.ParseBytes(data).Type {
	case gjson.Null:
		*c = Content{}
		return nil
	case gjson.String:
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = TextContent(text)
		return nil
	}
	var blocks ContentBlocks
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	*c = Content{Blocks: blocks}
	return nil
}

// ContentBlock is one block of a message.
type ContentBlock interface {
	BlockType() string
	isContentBlock()
}

// TextBlock is plain text.
type TextBlock struct {
	Text string `json:"text"`
}

// ThinkingBlock is model reasoning.
type ThinkingBlock struct {
	Thinking string `json:"thinking"`
}

// ToolUseBlock is a tool invocation.
type ToolUseBlock struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResultBlock carries the run of a tool invocation.
type ToolResultBlock struct {
	ToolUseID string  `json:"toolUseID"`
	Run       ToolRun `json:"run"`
}

// ToolRun is the state of a tool invocation.
type ToolRun struct {
	Error  *string         `json:"error,omitempty"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Terminal reports whether the run has finished.
func (r ToolRun) Terminal() bool {
	switch r.Status {
	case ToolRunDone, ToolRunError, ToolRunCancelled, ToolRunRejectedByUser:
		return true
	}
	return false
}

// Failed reports whether the run finished without a result.
func (r ToolRun) Failed() bool {
	return r.Terminal() && r.Status != ToolRunDone
}

// Output is the run result when present, otherwise the error message, and
// null while the run has neither.
func (r ToolRun) Output() json.RawMessage {
	switch {
	case len(r.Result) > 0:
		return r.Result
	case r.Error != nil:
		b, _ := json.Marshal(*r.Error)
		return b
	}
	return json.RawMessage("null")
}

func (TextBlock) BlockType() string       { return BlockTypeText }
func (ThinkingBlock) BlockType() string   { return BlockTypeThinking }
func (ToolUseBlock) BlockType() string    { return BlockTypeToolUse }
func (ToolResultBlock) BlockType() string { return BlockTypeToolResult }

func (TextBlock) isContentBlock()       {}
func (ThinkingBlock) isContentBlock()   {}
func (ToolUseBlock) isContentBlock()    {}
func (ToolResultBlock) isContentBlock() {}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return tagged.Marshal("type", BlockTypeText, alias(b))
}

func (b ThinkingBlock) MarshalJSON() ([]byte, error) {
	type alias ThinkingBlock
	return tagged.Marshal("type", BlockTypeThinking, alias(b))
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

var blockDecoders = map[string]func([]byte) (ContentBlock, error){
	BlockTypeText:       tagged.As[TextBlock, ContentBlock],
	BlockTypeThinking:   tagged.As[ThinkingBlock, ContentBlock],
	BlockTypeToolUse:    tagged.As[ToolUseBlock, ContentBlock],
	BlockTypeToolResult: tagged.As[ToolResultBlock, ContentBlock],
}

// BlockTypes returns every content block type, sorted.
func BlockTypes() []string {
	return sortedKeys(blockDecoders)
}

// ParseContentBlock decodes a tagged content block.
func ParseContentBlock(data []byte) (ContentBlock, error) {
	return tagged.Decode(data, "type", blockDecoders)
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
