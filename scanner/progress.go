package scanner

// EventType identifies a lifecycle notification from a long operation.
type EventType string

const (
	EventScanProgress  EventType = "scan-progress"
	EventScanComplete  EventType = "scan-complete"
	EventScanError     EventType = "scan-error"
	EventPruneStart    EventType = "prune-start"
	EventPruneProgress EventType = "prune-progress"
	EventPruneComplete EventType = "prune-complete"
	EventPruneError    EventType = "prune-error"
	EventApplyStart    EventType = "preset-apply-start"
	EventApplyProgress EventType = "preset-apply-progress"
	EventApplyComplete EventType = "preset-apply-complete"
	EventApplyError    EventType = "preset-apply-error"
)

// Event is a one-way notification consumed by a presentation layer (the scan
// TUI, the GUI browser). Producers never wait for a consumer.
type Event struct {
	Type        EventType
	Processed   int
	Total       int
	CurrentPath string
	CurrentID   uint
	Message     string
}

// emit sends an event without blocking. A nil channel or an absent/slow
// consumer simply drops the notification.
func emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
