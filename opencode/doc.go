// Package opencode models the events published by the OpenCode server and
// converts them to and from the universal event model.
//
// Each event is a {"type", "properties"} object; ParseEvent decodes the
// properties into the Event variant named by the type. Message content
// arrives as message.part.updated events whose parts are tagged by "type".
package opencode
