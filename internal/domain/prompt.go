package domain

// Prompt is a user-submitted text record. Timestamp is epoch millis.
type Prompt struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"`
}

type PromptInput struct {
	Prompt string `json:"prompt"`
}

// PromptSaved is published after a prompt has been persisted for UID.
type PromptSaved struct {
	UID    string
	Prompt Prompt
}
