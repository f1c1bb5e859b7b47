package session

import "context"

// Action is a user-facing operation on the session
type Action string

const (
	ActionFlip    Action = "flip"
	ActionNext    Action = "next"
	ActionPrev    Action = "prev"
	ActionShuffle Action = "shuffle"
	ActionReset   Action = "reset"
	ActionKnown   Action = "known"
	ActionAgain   Action = "again"
)

// Actions lists every action in display order
var Actions = []Action{
	ActionFlip,
	ActionPrev,
	ActionNext,
	ActionKnown,
	ActionAgain,
	ActionShuffle,
	ActionReset,
}

// ParseAction converts a name to an Action
func ParseAction(name string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// Apply dispatches an action. It returns false for unknown actions.
func (s *Session) Apply(ctx context.Context, a Action) bool {
	switch a {
	case ActionFlip:
		s.Flip()
	case ActionNext:
		s.Next()
	case ActionPrev:
		s.Prev()
	case ActionShuffle:
		s.Shuffle(ctx)
	case ActionReset:
		s.Reset(ctx)
	case ActionKnown:
		s.MarkKnown(ctx)
	case ActionAgain:
		s.MarkAgain(ctx)
	default:
		return false
	}
	return true
}
