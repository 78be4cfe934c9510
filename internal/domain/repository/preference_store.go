package repository

// PreferenceStore defines the interface for the small amount of state that
// survives process restarts: the bearer token and the theme preference.
// Both values are opaque strings to this package. An empty string means
// "not set".
type PreferenceStore interface {
	// Token returns the persisted bearer token, or "" when absent.
	Token() (string, error)

	// SetToken persists the bearer token.
	SetToken(token string) error

	// ClearToken removes the persisted token. Clearing an absent token is
	// not an error.
	ClearToken() error

	// Theme returns the persisted theme preference, or "" when absent.
	Theme() (string, error)

	// SetTheme persists the theme preference.
	SetTheme(theme string) error
}
