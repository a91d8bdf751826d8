package custom_errors

import "errors"

var (
	// Not found.
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrTagNotFound     = errors.New("tag not found")

	// Ownership.
	ErrForbidden = errors.New("operation not allowed for this user")

	// Conflicts.
	ErrUsernameExists = errors.New("username already exists")
	ErrAlreadyLiked   = errors.New("post already liked by user")

	// Validation.
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Storage.
	ErrDatabaseQuery = errors.New("database query error")
	ErrDatabaseScan  = errors.New("database scan error")
	ErrNoUpdateRows  = errors.New("no fields to update")
)
