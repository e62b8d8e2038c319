// Package claude models the stream-json lines printed by the Claude Code CLI
// and converts them to and from the universal event model.
//
// Lines are tagged by "type". Assistant and user messages carry content that
// is either a string or a list of ContentBlock values; stream_event lines
// wrap the partial-message events of the Anthropic streaming API, which
// ParseStreamEvent decodes.
package claude
