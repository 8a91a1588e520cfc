package core

import "errors"

var (
	ErrRoomNotFound   = errors.New("room does not exist")
	ErrMemberNotFound = errors.New("not connected to a room")
	ErrInvalidPayload = errors.New("expected a plain object")
)
