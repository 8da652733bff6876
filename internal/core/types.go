package core

const (
	SuiteName          = "GTM Synergy Suite"
	SuiteUserAgent     = "GTMSuite/0.1"
	SuiteRepositoryURL = "https://github.com/sandevgo/gtmsuite"
	SuiteVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions are per-call generation settings.
// A nil Temperature leaves the provider default in place.
type ChatOptions struct {
	Temperature *float64
	MaxTokens   int
}

func WithTemperature(t float64) ChatOptions {
	return ChatOptions{Temperature: &t}
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}
