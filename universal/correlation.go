package universal

// PlaceholderID fills backend correlation fields (thread, turn) that a
// universal event does not carry when it is converted back to a backend
// notification.
const PlaceholderID = "unknown"

// Correlation holds the backend identifiers a reverse conversion writes into
// the notification it builds.
type Correlation struct {
	ThreadID string
	TurnID   string
}

// ReverseOption configures a reverse conversion.
type ReverseOption func(*Correlation)

// WithCorrelation sets the thread and turn identifiers used by a reverse
// conversion. Empty values keep PlaceholderID.
func WithCorrelation(threadID, turnID string) ReverseOption {
	return func(c *Correlation) {
		if threadID != "" {
			c.ThreadID = threadID
		}
		if turnID != "" {
			c.TurnID = turnID
		}
	}
}

// ResolveCorrelation applies opts over the placeholder defaults.
func ResolveCorrelation(opts ...ReverseOption) Correlation {
	c := Correlation{ThreadID: PlaceholderID, TurnID: PlaceholderID}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
