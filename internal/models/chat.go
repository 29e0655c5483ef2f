package models

// ChatMessage is a role-tagged message in a conversation.
// Role is one of "system", "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	ChatType string        `json:"chatType"`
	CaseID   string        `json:"caseId"`
}

// ChatResponse carries the assistant's reply back to the UI.
type ChatResponse struct {
	Reply ChatMessage `json:"reply"`
}

// PreloadRequest is the body of POST /api/preload-case-data.
type PreloadRequest struct {
	CaseID string `json:"caseId"`
}

// CaseSummary is one entry of the case catalog shown on the index page.
type CaseSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Specialty string `json:"specialty"`
}
