package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ai-dashboard/internal/domain"
)

const activeWindow = 24 * time.Hour

// Aggregate joins every prompt collection with the registry and derives the
// admin view. now and loc fix the "last 24h" and "today" boundaries.
func Aggregate(collections map[string][]domain.Prompt, registry domain.UserRegistry, now time.Time, loc *time.Location) *domain.AdminSnapshot {
	nowMs := now.UnixMilli()

	all := []domain.Prompt{}
	byUser := make(map[string][]domain.Prompt, len(collections))
	for _, prompts := range collections {
		all = append(all, prompts...)
	}
	// Prompts are attributed by their own uid field, not by the key they were found under.
	for _, p := range all {
		byUser[p.UID] = append(byUser[p.UID], p)
	}

	uids := make(map[string]struct{}, len(collections)+len(registry))
	for uid := range collections {
		uids[uid] = struct{}{}
	}
	for uid := range registry {
		uids[uid] = struct{}{}
	}

	users := make([]domain.UserActivity, 0, len(uids))
	for uid := range uids {
		entry, registered := registry[uid]
		users = append(users, userActivity(uid, byUser[uid], entry, registered, nowMs))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].JoinDate != users[j].JoinDate {
			return users[i].JoinDate > users[j].JoinDate
		}
		return users[i].UID < users[j].UID
	})
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp != all[j].Timestamp {
			return all[i].Timestamp > all[j].Timestamp
		}
		return all[i].ID > all[j].ID
	})

	return &domain.AdminSnapshot{
		Users:       users,
		Prompts:     all,
		Stats:       computeStats(users, len(all), now, loc),
		GeneratedAt: nowMs,
	}
}

func userActivity(uid string, prompts []domain.Prompt, entry domain.UserRegistryEntry, registered bool, nowMs int64) domain.UserActivity {
	u := domain.UserActivity{
		UID:         uid,
		Email:       placeholderEmail(uid),
		PromptCount: len(prompts),
	}
	if registered && entry.Email != "" {
		u.Email = entry.Email
	}

	var minTs, maxTs int64
	for i, p := range prompts {
		if i == 0 || p.Timestamp < minTs {
			minTs = p.Timestamp
		}
		if i == 0 || p.Timestamp > maxTs {
			maxTs = p.Timestamp
		}
	}

	switch {
	case len(prompts) > 0:
		u.LastActive = maxTs
	case registered && entry.LastLogin != 0:
		u.LastActive = entry.LastLogin
	case registered && entry.RegistrationDate != 0:
		u.LastActive = entry.RegistrationDate
	default:
		u.LastActive = nowMs
	}

	switch {
	case registered && entry.RegistrationDate != 0:
		u.JoinDate = entry.RegistrationDate
	case len(prompts) > 0:
		u.JoinDate = minTs
	default:
		u.JoinDate = nowMs
	}
	return u
}

func computeStats(users []domain.UserActivity, totalPrompts int, now time.Time, loc *time.Location) domain.AggregatedStats {
	dayAgo := now.Add(-activeWindow).UnixMilli()
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UnixMilli()

	st := domain.AggregatedStats{
		TotalUsers:   len(users),
		TotalPrompts: totalPrompts,
	}
	for _, u := range users {
		if u.LastActive > dayAgo {
			st.ActiveUsers++
		}
		if u.JoinDate >= midnight {
			st.NewUsersToday++
		}
	}
	st.AvgPromptsPerUser = averagePerUser(totalPrompts, len(users))
	return st
}

// averagePerUser rounds half away from zero; 0 when there are no users.
func averagePerUser(prompts, users int) int {
	if users == 0 {
		return 0
	}
	return int(math.Round(float64(prompts) / float64(users)))
}

func placeholderEmail(uid string) string {
	r := []rune(uid)
	if len(r) > 8 {
		r = r[:8]
	}
	return fmt.Sprintf("user-%s@example.com", string(r))
}
