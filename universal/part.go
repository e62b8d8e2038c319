package universal

import (
	"encoding/json"

	"github.com/bazelment/yoloswe/agentschema/internal/tagged"
)

// PartType discriminates between message part kinds.
type PartType string

const (
	PartTypeText       PartType = "text"
	PartTypeImage      PartType = "image"
	PartTypeToolCall   PartType = "tool_call"
	PartTypeToolResult PartType = "tool_result"
	PartTypeUnknown    PartType = "unknown"
)

// Part is one element of a ParsedMessage.
type Part interface {
	PartType() PartType
	isPart()
}

// TextPart is plain text.
type TextPart struct {
	Text string `json:"text"`
}

// ImagePart references an image by URL or path.
type ImagePart struct {
	Source   AttachmentSource `json:"source"`
	MimeType *string          `json:"mimeType,omitempty"`
	Alt      *string          `json:"alt,omitempty"`
	Raw      json.RawMessage  `json:"raw,omitempty"`
}

// ToolCallPart is a tool invocation.
type ToolCallPart struct {
	ID    *string         `json:"id,omitempty"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResultPart is the outcome of a tool invocation. Output holds either the
// result or the error, never both.
type ToolResultPart struct {
	ID      *string         `json:"id,omitempty"`
	Name    *string         `json:"name,omitempty"`
	Output  json.RawMessage `json:"output"`
	IsError *bool           `json:"isError,omitempty"`
}

// UnknownPart preserves content with no part equivalent.
type UnknownPart struct {
	Raw json.RawMessage `json:"raw"`
}

func (TextPart) PartType() PartType       { return PartTypeText }
func (ImagePart) PartType() PartType      { return PartTypeImage }
func (ToolCallPart) PartType() PartType   { return PartTypeToolCall }
func (ToolResultPart) PartType() PartType { return PartTypeToolResult }
func (UnknownPart) PartType() PartType    { return PartTypeUnknown }

func (TextPart) isPart()       {}
func (ImagePart) isPart()      {}
func (ToolCallPart) isPart()   {}
func (ToolResultPart) isPart() {}
func (UnknownPart) isPart()    {}

// MarshalJSON implements json.Marshaler.
func (p TextPart) MarshalJSON() ([]byte, error) {
	type alias TextPart
	return tagged.Marshal("type", string(PartTypeText), alias(p))
}

// MarshalJSON implements json.Marshaler.
func (p ImagePart) MarshalJSON() ([]byte, error) {
	type alias ImagePart
	return tagged.Marshal("type", string(PartTypeImage), alias(p))
}

// MarshalJSON implements json.Marshaler.
func (p ToolCallPart) MarshalJSON() ([]byte, error) {
	type alias ToolCallPart
	if p.Input == nil {
		p.Input = nullRaw
	}
	return tagged.Marshal("type", string(PartTypeToolCall), alias(p))
}

// MarshalJSON implements json.Marshaler.
func (p ToolResultPart) MarshalJSON() ([]byte, error) {
	type alias ToolResultPart
	if p.Output == nil {
		p.Output = nullRaw
	}
	return tagged.Marshal("type", string(PartTypeToolResult), alias(p))
}

// MarshalJSON implements json.Marshaler.
func (p UnknownPart) MarshalJSON() ([]byte, error) {
	type alias UnknownPart
	if p.Raw == nil {
		p.Raw = nullRaw
	}
	return tagged.Marshal("type", string(PartTypeUnknown), alias(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ImagePart) UnmarshalJSON(data []byte) error {
	var wire struct {
		Source   json.RawMessage `json:"source"`
		MimeType *string         `json:"mimeType"`
		Alt      *string         `json:"alt"`
		Raw      json.RawMessage `json:"raw"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	src, err := ParseAttachmentSource(wire.Source)
	if err != nil {
		return err
	}
	*p = ImagePart{Source: src, MimeType: wire.MimeType, Alt: wire.Alt, Raw: wire.Raw}
	return nil
}

var partDecoders = map[string]func([]byte) (Part, error){
	string(PartTypeText):       tagged.As[TextPart, Part],
	string(PartTypeImage):      tagged.As[ImagePart, Part],
	string(PartTypeToolCall):   tagged.As[ToolCallPart, Part],
	string(PartTypeToolResult): tagged.As[ToolResultPart, Part],
	string(PartTypeUnknown):    tagged.As[UnknownPart, Part],
}

// ParsePart decodes a tagged message part.
func ParsePart(data []byte) (Part, error) {
	return tagged.Decode(data, "type", partDecoders)
}

// SourceType discriminates between attachment locations.
type SourceType string

const (
	SourceTypeURL  SourceType = "url"
	SourceTypePath SourceType = "path"
)

// AttachmentSource locates an attachment.
type AttachmentSource interface {
	SourceType() SourceType
	isAttachmentSource()
}

// URLSource is an attachment reachable by URL, including data: URLs.
type URLSource struct {
	URL string `json:"url"`
}

// PathSource is an attachment on the local filesystem.
type PathSource struct {
	Path string `json:"path"`
}

func (URLSource) SourceType() SourceType  { return SourceTypeURL }
func (PathSource) SourceType() SourceType { return SourceTypePath }

func (URLSource) isAttachmentSource()  {}
func (PathSource) isAttachmentSource() {}

// MarshalJSON implements json.Marshaler.
func (s URLSource) MarshalJSON() ([]byte, error) {
	type alias URLSource
	return tagged.Marshal("type", string(SourceTypeURL), alias(s))
}

// MarshalJSON implements json.Marshaler.
func (s PathSource) MarshalJSON() ([]byte, error) {
	type alias PathSource
	return tagged.Marshal("type", string(SourceTypePath), alias(s))
}

var sourceDecoders = map[string]func([]byte) (AttachmentSource, error){
	string(SourceTypeURL):  tagged.As[URLSource, AttachmentSource],
	string(SourceTypePath): tagged.As[PathSource, AttachmentSource],
}

// ParseAttachmentSource decodes a tagged attachment source.
func ParseAttachmentSource(data []byte) (AttachmentSource, error) {
	return tagged.Decode(data, "type", sourceDecoders)
}
