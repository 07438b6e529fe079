// Package localstore keeps per-user dashboard data in the key-value store.
// Every collection lives under a single key and is read and written whole,
// so concurrent writers of the same collection race and the last one wins.
package localstore

const (
	PromptKeyPrefix       = "ai_dashboard_prompts_"
	NotificationKeyPrefix = "ai_dashboard_notifications_"
	RegistryKey           = "ai_dashboard_user_registry"
	ThemeKeyPrefix        = "theme_"
)

func promptKey(uid string) string       { return PromptKeyPrefix + uid }
func notificationKey(uid string) string { return NotificationKeyPrefix + uid }
func themeKey(uid string) string        { return ThemeKeyPrefix + uid }
