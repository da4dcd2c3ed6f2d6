package ai

// Message is one entry in a conversation, immutable once sent.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles understood by both backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is a single generation request. Constructed fresh per call and
// never shared across concurrent calls.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// Result is a completed generation with token accounting where the backend
// reports it.
type Result struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Stream markers emitted through the chunk callback by the local runtime.
// A StreamDone fragment terminates the stream with the accumulated text; a
// fragment prefixed with StreamErrorPrefix terminates it with the remainder
// of the fragment as the error message.
const (
	StreamDone        = "[DONE]"
	StreamErrorPrefix = "[ERROR] "
)
