package helpers

import "time"

const (
	RegistrationsPageSize = 50

	// Slack bulk invites: conversations.invite takes up to 100 users per
	// call; the delay keeps us inside the tier-3 rate limit.
	InviteBatchSize  = 50
	InviteBatchDelay = time.Second

	SlackCacheTTL = 5 * time.Minute
)
