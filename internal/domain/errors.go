package domain

import "errors"

var (
	ErrEngineStopped = errors.New("poll engine stopped")
	ErrPollNotFound  = errors.New("poll not found")
)
