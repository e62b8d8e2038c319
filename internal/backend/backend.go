// Package backend binds each agent backend's codec and conversions behind a
// single interface, selected by name.
package backend

import (
	"fmt"

	"github.com/bazelment/yoloswe/agentschema/amp"
	"github.com/bazelment/yoloswe/agentschema/claude"
	"github.com/bazelment/yoloswe/agentschema/codex"
	"github.com/bazelment/yoloswe/agentschema/opencode"
	"github.com/bazelment/yoloswe/agentschema/universal"
)

// Backend names.
const (
	Codex    = "codex"
	Claude   = "claude"
	OpenCode = "opencode"
	Amp      = "amp"
)

// Converter translates one backend's wire lines to and from universal
// events. Implementations are stateless and safe for concurrent use.
type Converter interface {
	Name() string
	// Types lists every wire discriminant the backend decodes.
	Types() []string
	// ToUniversal decodes one wire line and converts it forward.
	ToUniversal(line []byte) (universal.EventConversion, error)
	// FromUniversal converts ev back to the backend and encodes it as one
	// wire line. Events the backend cannot express fail with
	// universal.ErrUnsupported.
	FromUniversal(ev universal.EventData, opts ...universal.ReverseOption) ([]byte, error)
}

// Names returns the supported backend names.
func Names() []string {
	return []string{Amp, Claude, Codex, OpenCode}
}

// New returns the converter for the named backend.
func New(name string) (Converter, error) {
	switch name {
	case Codex:
		return converter[codex.Notification]{
			name:    Codex,
			types:   codex.Methods,
			parse:   codex.ParseNotification,
			forward: codex.NotificationToUniversal,
			reverse: codex.UniversalEventToCodex,
			marshal: codex.MarshalNotification,
		}, nil
	case Claude:
		return converter[claude.Notification]{
			name:    Claude,
			types:   claude.Types,
			parse:   claude.ParseNotification,
			forward: claude.NotificationToUniversal,
			reverse: claude.UniversalEventToClaude,
			marshal: claude.MarshalNotification,
		}, nil
	case OpenCode:
		return converter[opencode.Event]{
			name:    OpenCode,
			types:   opencode.Types,
			parse:   opencode.ParseEvent,
			forward: opencode.EventToUniversal,
			reverse: opencode.UniversalEventToOpenCode,
			marshal: opencode.MarshalEvent,
		}, nil
	case Amp:
		return converter[amp.Event]{
			name:    Amp,
			types:   amp.Types,
			parse:   amp.ParseEvent,
			forward: amp.EventToUniversal,
			reverse: amp.UniversalEventToAmp,
			marshal: amp.MarshalEvent,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %q", name)
	}
}

type converter[N any] struct {
	types   func() []string
	parse   func([]byte) (N, error)
	forward func(N) universal.EventConversion
	reverse func(universal.EventData, ...universal.ReverseOption) (N, error)
	marshal func(N) ([]byte, error)
	name    string
}

func (c converter[N]) Name() string    { return c.name }
func (c converter[N]) Types() []string { return c.types() }

func (c converter[N]) ToUniversal(line []byte) (universal.EventConversion, error) {
	n, err := c.parse(line)
	if err != nil {
		return universal.EventConversion{}, err
	}
	return c.forward(n), nil
}

func (c converter[N]) FromUniversal(ev universal.EventData, opts ...universal.ReverseOption) ([]byte, error) {
	n, err := c.reverse(ev, opts...)
	if err != nil {
		return nil, err
	}
	return c.marshal(n)
}
