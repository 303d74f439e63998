package domain

// Completion is the output of a chat completion call.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
