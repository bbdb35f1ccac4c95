package service

import "errors"

// Custom errors for giveaway service
var (
	ErrNotFound       = errors.New("giveaway not found")
	ErrDuplicateEntry = errors.New("giveaway entry already exists")
)
