// Package universal defines the backend-agnostic event model that every
// agent adapter in this module targets.
//
// A backend notification converts into exactly one EventData value wrapped in
// an EventConversion envelope, which optionally carries the backend's
// thread/session identifier:
//
//	conv := codex.NotificationToUniversal(n)
//	switch e := conv.Data.(type) {
//	case universal.StartedEvent:
//	    fmt.Println("started:", e.Started.Message)
//	case universal.MessageEvent:
//	    if m, ok := e.Message.(universal.ParsedMessage); ok {
//	        fmt.Println(m.Role, m.Text())
//	    }
//	case universal.ErrorEvent:
//	    fmt.Println("error:", e.Error.Message)
//	case universal.UnknownEvent:
//	    // e.Raw holds the original notification.
//	}
//
// # Wire format
//
// Every union value is a JSON object whose first field is a discriminant:
// "type" for EventData, Part and AttachmentSource, and "kind" for Message.
// Discriminant values are stable so stored events stay readable across
// versions. Schema returns the JSON Schema document describing this format.
//
// # Reverse conversion
//
// Adapters also offer a best-effort mapping back to backend notifications.
// It is only defined for MessageEvent and ErrorEvent; everything else fails
// with an error matching ErrUnsupported. Callers should skip such events.
package universal
