package auth

import "time"

const (
	ContextKeyUserID = "user_id"

	jsonKeyMessage = "message"

	cookiePath             = "/"
	defaultCleanupInterval = 15 * time.Minute
)

const (
	msgMissingSession          = "missing session"
	msgInvalidOrExpiredSession = "invalid or expired session"
	msgUserNotAuthenticated    = "user not authenticated"
	msgInvalidUserIDCtx        = "invalid user ID in context"
	msgPasswordProcessFail     = "failed to process password"
	msgGenerateTokenFail       = "failed to generate session token"
)
