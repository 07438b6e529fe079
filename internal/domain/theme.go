package domain

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type ThemeInput struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}
