package domain

// MemberID is the transport-assigned stable identifier of a connection.
type MemberID string

// Member is one connected participant's room state.
// No transport or lifecycle logic here.
//
// Server and Library are opaque to us: an empty string until the client
// publishes them, then whatever plain object the client sent. They are
// forwarded as-is, never interpreted.
type Member struct {
	Room    RoomID
	Server  any
	Library any
	Upvotes map[string]struct{}
}

// NewMember avoids raw literals elsewhere and keeps construction obvious.
func NewMember(room RoomID) *Member {
	return &Member{
		Room:    room,
		Server:  "",
		Library: "",
		Upvotes: make(map[string]struct{}),
	}
}
