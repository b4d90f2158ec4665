package llms

import "fmt"

// Message is a single entry in a conversation history.
type Message struct {
	Role    Role
	Content string
}

// Role describes who a history entry is from.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ServiceError is returned when a completion provider fails at the network,
// quota or model level. The orchestrator makes a single attempt per turn and
// surfaces the failure as a recoverable notification; no retry is built in.
type ServiceError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s completion failed: %s", e.Provider, e.Message)
}

// AnnotatedReply is the structured reply shape used when a provider supports
// schema-constrained output. Mood is a coarse tag presentation layers can
// use to drive an avatar.
type AnnotatedReply struct {
	Reply string `json:"reply" jsonschema:"title=Reply,description=The companion's spoken reply"`
	Mood  string `json:"mood" jsonschema:"title=Mood,description=Coarse emotional tone of the reply,enum=neutral,enum=warm,enum=cheerful,enum=concerned,enum=playful"`
}
