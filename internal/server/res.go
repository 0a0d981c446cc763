package server

// SendNotificationRes is the dispatch summary returned to the caller.
// FailedCount is a pointer so the zero-token short circuit can omit it.
type SendNotificationRes struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SentCount   int    `json:"sentCount"`
	FailedCount *int   `json:"failedCount,omitempty"`
}

type MessageRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorRes struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
