package domain

// UserActivity is the per-user display record produced by the admin aggregation.
type UserActivity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	PromptCount int    `json:"promptCount"`
	LastActive  int64  `json:"lastActive"`
	JoinDate    int64  `json:"joinDate"`
}

// AggregatedStats is derived on every refresh and never persisted.
type AggregatedStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalPrompts      int `json:"totalPrompts"`
	ActiveUsers       int `json:"activeUsers"`
	NewUsersToday     int `json:"newUsersToday"`
	AvgPromptsPerUser int `json:"avgPromptsPerUser"`
}

// AdminSnapshot is one full recompute of the admin view.
// Synthetic is set when the data is the demo fallback rather than real storage.
type AdminSnapshot struct {
	Users       []UserActivity  `json:"users"`
	Prompts     []Prompt        `json:"prompts"`
	Stats       AggregatedStats `json:"stats"`
	Synthetic   bool            `json:"synthetic"`
	GeneratedAt int64           `json:"generatedAt"`
}
