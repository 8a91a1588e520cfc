// Package domain contains entity without logic, just meta-data
package domain

// RoomID is the short shareable code identifying a live voting room.
// Codes are unique among live rooms only; a closed room's code may be
// issued again later.
type RoomID string
