package errors

import "errors"

var (
	ErrMissingBotToken       = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingAPICredentials = errors.New("TELEGRAM_API_ID and TELEGRAM_API_HASH are required")
	ErrMissingBotPassword    = errors.New("BOT_PASSWORD is required")
	ErrChannelNotFound       = errors.New("channel not found")
	ErrLoginInProgress       = errors.New("login already in progress")
	ErrNotAuthenticated      = errors.New("session not authenticated")
)
