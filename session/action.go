package session

// Action is the closed set of interaction actions the bot understands.
// Component custom IDs are decoded exactly once, at the gateway boundary.
type Action int

const (
	ActionUnknown Action = iota
	ActionIncrement
	ActionStop
	ActionSortAscending
	ActionSortDescending
)

// Component custom IDs for the play and leaderboard buttons
const (
	CustomIDIncrement      = "click"
	CustomIDStop           = "delete"
	CustomIDSortAscending  = "asc"
	CustomIDSortDescending = "desc"
)

// ParseAction decodes a component custom ID into an Action
func ParseAction(customID string) Action {
	switch customID {
	case CustomIDIncrement:
		return ActionIncrement
	case CustomIDStop:
		return ActionStop
	case CustomIDSortAscending:
		return ActionSortAscending
	case CustomIDSortDescending:
		return ActionSortDescending
	default:
		return ActionUnknown
	}
}

func (a Action) String() string {
	switch a {
	case ActionIncrement:
		return "increment"
	case ActionStop:
		return "stop"
	case ActionSortAscending:
		return "sort_asc"
	case ActionSortDescending:
		return "sort_desc"
	default:
		return "unknown"
	}
}

// Event is one interaction delivered to a running session or view. Ack
// suppresses the client-visible "interaction failed" notice and may be nil
// in contexts that have already responded.
type Event struct {
	Action  Action
	ActorID string
	Ack     func() error
}

func (e Event) acknowledge() {
	if e.Ack != nil {
		_ = e.Ack()
	}
}
