package stats

import (
	"fmt"
	"time"

	"github.com/ai-dashboard/internal/domain"
)

// syntheticSnapshot is the fixed demo dataset served in place of real data
// when aggregation fails and the fallback is enabled. It is always flagged.
func syntheticSnapshot(now time.Time, loc *time.Location) *domain.AdminSnapshot {
	ago := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	day := 24 * time.Hour

	users := []domain.UserActivity{
		{UID: "user3", Email: "bob.wilson@example.com", PromptCount: 22, LastActive: ago(30 * time.Minute), JoinDate: ago(0)},
		{UID: "user5", Email: "charlie.davis@example.com", PromptCount: 6, LastActive: ago(5 * day), JoinDate: ago(day)},
		{UID: "user4", Email: "alice.brown@example.com", PromptCount: 12, LastActive: ago(2 * day), JoinDate: ago(2 * day)},
		{UID: "user2", Email: "jane.smith@example.com", PromptCount: 8, LastActive: ago(2 * time.Hour), JoinDate: ago(3 * day)},
		{UID: "user1", Email: "john.doe@example.com", PromptCount: 15, LastActive: ago(0), JoinDate: ago(7 * day)},
	}

	var prompts []domain.Prompt
	for _, u := range users {
		for i := 0; i < u.PromptCount; i++ {
			n := len(prompts) + 1
			prompts = append(prompts, domain.Prompt{
				ID:        fmt.Sprintf("prompt%d", n),
				UID:       u.UID,
				Prompt:    fmt.Sprintf("Sample prompt %d", n),
				Timestamp: u.LastActive - int64(i)*time.Minute.Milliseconds(),
			})
		}
	}

	return &domain.AdminSnapshot{
		Users:       users,
		Prompts:     prompts,
		Stats:       computeStats(users, len(prompts), now, loc),
		Synthetic:   true,
		GeneratedAt: now.UnixMilli(),
	}
}
