package domain

// Notification is a per-user bell entry. Only Read ever changes after creation.
type Notification struct {
	ID        string `json:"id"`
	Icon      string `json:"icon"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Read      bool   `json:"read"`
}

type NotificationInput struct {
	Icon    string `json:"icon"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message"`
}
