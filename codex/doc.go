// Package codex models the notifications streamed by the Codex app-server
// and converts them to and from the universal event model.
//
// Each line on the wire is a {"method", "params"} object. ParseNotification
// decodes it into one of the Notification variants, and
// NotificationToUniversal maps that variant onto a universal event. Thread
// items inside item and turn notifications are tagged by "type" and decode
// into ThreadItem values.
//
// Notifications with no universal counterpart become universal.UnknownEvent
// values that hold the complete notification, so
//
//	ParseNotification(unknown.Raw)
//
// returns the original value.
package codex
