package core

import "flickpick/internal/domain"

// Frame is a raw outbound payload.
type Frame []byte

// SignalConnection abstracts a member's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Notifier receives room-scoped events from the registry. The membership
// snapshot is passed along so implementations never have to call back into
// the registry while it holds its lock.
type Notifier interface {
	MemberCount(room domain.RoomID, members []domain.MemberID, count int)
	ConsensusReached(room domain.RoomID, members []domain.MemberID, itemID string)
}
