package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidMarket = errors.New("invalid market")
	ErrNotRegistered = errors.New("no adapter registered for venue")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrWSDisconnect  = errors.New("websocket disconnected")
)
