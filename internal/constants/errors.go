package constants

import "errors"

// Target and configuration errors.
var (
	ErrNoTargetsConfigured = errors.New("no targets configured, use 'concourse login' to add one")
	ErrNoCurrentTarget     = errors.New("no current target, use 'concourse login' or 'concourse target'")
	ErrTargetNotFound      = errors.New("target not found")
	ErrTargetURLRequired   = errors.New("--url is required for a new target")
	ErrUnknownConfigKey    = errors.New("unknown config key")
	ErrNoSession           = errors.New("target has no session, use 'concourse login'")
	ErrUsernameRequired    = errors.New("--username is required")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidPipelinePath = errors.New("expected PIPELINE/NAME")
	ErrPasswordPrompt      = errors.New("cannot prompt for password without a terminal")
	ErrInvalidVersionPair  = errors.New("expected KEY=VALUE")
	ErrInvalidBuildID      = errors.New("build ID must be a positive integer")
)
