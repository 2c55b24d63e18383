package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInactive      = errors.New("user account is inactive")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrThreadNotFound     = errors.New("thread not found")
	ErrThreadAccessDenied = errors.New("thread belongs to different user")
	ErrThreadNotParsable  = errors.New("no tweet array found in generator response")

	ErrTopicTooShort     = errors.New("topic is too short")
	ErrTweetCountInvalid = errors.New("tweet count must be between 1 and 20")
)
