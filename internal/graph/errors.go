package graph

import "errors"

const maxDepth = 8

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidArgument  = errors.New("invalid argument")
)
