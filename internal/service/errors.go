package service

import "errors"

var (
	// ErrLimitExceeded gates execution before any remote call. It is not a
	// permanent failure of the post; the post stays eligible for a later tick.
	ErrLimitExceeded = errors.New("daily or monthly post limit exceeded")

	ErrNoThreadItems  = errors.New("thread post has no thread items")
	ErrNoRepostTarget = errors.New("repost has no target tweet id")
)
