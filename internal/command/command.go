package command

import "context"

// Result is the structured outcome of handling one command. A handler fills
// SpokenResponse with what should be voiced, OpenedURL with at most one page
// to open, and AdditionalContext with extra detail for the caller.
type Result struct {
	SpokenResponse    string `json:"spoken_response"`
	OpenedURL         string `json:"opened_url,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// ContextStreamed marks a result whose text was already spoken incrementally
// while it was being produced; the router must not speak it again.
const ContextStreamed = "streamed"

// Handler decides whether a command belongs to its category. TryHandle
// returns (nil, nil) when the command is not its business so the router can
// try the next handler; it never signals "no match" with an error.
type Handler interface {
	Name() string
	TryHandle(ctx context.Context, text string) (*Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, text string) (*Result, error)
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) TryHandle(ctx context.Context, text string) (*Result, error) {
	return h.Fn(ctx, text)
}

// Event is published to the live event feed as commands move through the
// router.
type Event struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Handler   string `json:"handler,omitempty"`
	Text      string `json:"text,omitempty"`
}

const (
	EventCommand  = "command"
	EventSentence = "sentence"
	EventResult   = "result"
)
