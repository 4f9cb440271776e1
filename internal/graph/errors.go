package graph

import "errors"

var (
	ErrUnknownRoom    = errors.New("unknown room")
	ErrDuplicateRoom  = errors.New("duplicate room")
	ErrSelfConnection = errors.New("room cannot connect to itself")
	ErrNotEligible    = errors.New("room does not exceed its limit")
)
