package command

import "errors"

// ErrUnparsable means the model reply could not be mapped to an Intent.
var ErrUnparsable = errors.New("could not parse a command intent from the query")

// ErrUnsupported means the intent was parsed but no dispatcher mapping exists.
var ErrUnsupported = errors.New("command is not supported")

type Action string

const (
	ActionCreate   Action = "create"
	ActionComplete Action = "complete"
	ActionApprove  Action = "approve"
	ActionList     Action = "list"
	ActionStatus   Action = "status"
	ActionSummary  Action = "summary"
)

type Entity string

const (
	EntityTask        Entity = "task"
	EntityEmployee    Entity = "employee"
	EntityNote        Entity = "note"
	EntityTransaction Entity = "transaction"
)

// Intent is the structured form of a free-text command. Args carries
// entity-specific fields extracted by the parser; the dispatcher fills blanks
// from the session context where it can.
type Intent struct {
	Action Action            `json:"action"`
	Entity Entity            `json:"entity"`
	Args   map[string]string `json:"args"`
}

func (i Intent) Arg(key string) string {
	return i.Args[key]
}
