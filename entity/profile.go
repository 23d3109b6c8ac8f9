package entity

// Profile is the subset of a Slack user profile the service cares about.
type Profile struct {
	SlackUserID string `json:"slackUserId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Session identifies the caller of an authenticated request. The web frontend
// mints the token after Slack OIDC login; this service only verifies it.
type Session struct {
	SlackUserID string
	Name        string
	Admin       bool
}
