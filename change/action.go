package change

// Action identifies the kind of mutation an Event describes.
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionReplace
	ActionMove
	ActionClear
)

// NoIndex is reported by events that have no position, i.e. Cleared.
const NoIndex = -1

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{ActionAdd, ActionRemove, ActionReplace, ActionMove, ActionClear}
}
