package entity

import "errors"

var (
	ErrFileRead   = errors.New("url source unreadable")
	ErrInvalidURL = errors.New("invalid url")
	ErrRequest    = errors.New("request failed")
	ErrUnexpected = errors.New("unexpected error")
)
