// Package amp models the Amp CLI stream-json events and converts them to and
// from the universal schema.
//
// Every line is a flat JSON object tagged by "type"; message content is a
// list of blocks tagged the same way. ParseEvent and MarshalEvent handle one
// line. EventToUniversal keeps events with no universal equivalent as
// universal.UnknownEvent whose Raw is the tagged line, so ParseEvent decodes
// it again.
package amp
