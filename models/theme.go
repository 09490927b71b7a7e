package models

// Theme is a named visual identity. Behaviorally inert: the server only
// stores the selected id and serves the definitions for clients to render.
type Theme struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gradient string `json:"gradient"`
	Accent   string `json:"accent"`
	Light    string `json:"light"`
	Dark     string `json:"dark"`
}
