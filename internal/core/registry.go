package core

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"flickpick/internal/domain"
)

// Registry owns the two process-wide maps: room -> member set and
// member -> state. Nothing else mutates them. One mutex serializes every
// operation; none of them block or do I/O while holding it, so a single
// lock is enough.
type Registry struct {
	mu       sync.Mutex
	rooms    map[domain.RoomID]map[domain.MemberID]struct{}
	members  map[domain.MemberID]*domain.Member
	notifier Notifier
}

func NewRegistry(n Notifier) *Registry {
	return &Registry{
		rooms:    make(map[domain.RoomID]map[domain.MemberID]struct{}),
		members:  make(map[domain.MemberID]*domain.Member),
		notifier: n,
	}
}

// CreateRoom opens a fresh room with mid as its first member and returns
// the generated code. It cannot fail.
func (r *Registry) CreateRoom(mid domain.MemberID) domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detachLocked(mid)

	id := r.freshRoomID()
	r.rooms[id] = map[domain.MemberID]struct{}{mid: {}}
	r.members[mid] = domain.NewMember(id)
	log.Info().Str("module", "core.registry").Str("sid", string(mid)).Str("room", string(id)).Msg("room created")
	r.notifyCountLocked(id)
	return id
}

// freshRoomID redraws until the code is unused among live rooms. A clash is
// a ~1/65536 event, so the loop almost always runs once. Caller holds r.mu.
func (r *Registry) freshRoomID() domain.RoomID {
	for {
		id := domain.RoomID(newRoomCode())
		if _, taken := r.rooms[id]; !taken {
			return id
		}
	}
}

// JoinRoom adds mid to an existing room and returns the server/library
// descriptors inherited from an arbitrary current member.
func (r *Registry) JoinRoom(mid domain.MemberID, room domain.RoomID) (server, library any, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.rooms[room]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	// Pick the descriptor source before any detach: on a re-join of the
	// member's own room, mid itself may be the only occupant left. Any
	// existing member works as the source; a live room is never empty.
	var src *domain.Member
	for existing := range set {
		src = r.members[existing]
		break
	}
	server, library = src.Server, src.Library

	// A re-join of the current room must not detach first: detaching the
	// sole occupant would tear the room down mid-join. The record is
	// replaced either way, so a rejoining member always starts with a
	// fresh upvote set.
	if cur, ok := r.members[mid]; !ok || cur.Room != room {
		r.detachLocked(mid)
	}

	m := domain.NewMember(room)
	m.Server = server
	m.Library = library
	r.members[mid] = m
	set[mid] = struct{}{}
	log.Info().Str("module", "core.registry").Str("sid", string(mid)).Str("room", string(room)).Msg("member joined")
	r.notifyCountLocked(room)
	return m.Server, m.Library, nil
}

// SetServer replaces mid's server descriptor. Only non-null plain objects
// are accepted; arrays, primitives and null never reach the member record.
func (r *Registry) SetServer(mid domain.MemberID, value any) error {
	return r.setDescriptor(mid, value, func(m *domain.Member, v any) { m.Server = v })
}

// SetLibrary is SetServer for the library descriptor.
func (r *Registry) SetLibrary(mid domain.MemberID, value any) error {
	return r.setDescriptor(mid, value, func(m *domain.Member, v any) { m.Library = v })
}

func (r *Registry) setDescriptor(mid domain.MemberID, value any, assign func(*domain.Member, any)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[mid]
	if !ok {
		return ErrMemberNotFound
	}
	obj, ok := value.(map[string]any)
	if !ok || obj == nil {
		return ErrInvalidPayload
	}
	assign(m, obj)
	return nil
}

// MemberCount reports the live size of a room, -1 when it does not exist.
func (r *Registry) MemberCount(room domain.RoomID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.rooms[room]
	if !ok {
		return -1
	}
	return len(set)
}

// RequestMemberCount re-broadcasts the count of an existing room.
// Unknown rooms are ignored rather than surfaced as errors.
func (r *Registry) RequestMemberCount(room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room]; ok {
		r.notifyCountLocked(room)
	}
}

// Disconnect removes the member and its room membership. Unknown members
// are a no-op: disconnects can race ahead of the first create/join.
func (r *Registry) Disconnect(mid domain.MemberID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked(mid)
}

// detachLocked deletes mid's record and pulls it out of its room. The room
// is torn down the moment its last member leaves; its code becomes free
// again. Caller holds r.mu.
func (r *Registry) detachLocked(mid domain.MemberID) {
	m, ok := r.members[mid]
	if !ok {
		return
	}
	delete(r.members, mid)
	set := r.rooms[m.Room]
	delete(set, mid)
	if len(set) == 0 {
		delete(r.rooms, m.Room)
		log.Info().Str("module", "core.registry").Str("room", string(m.Room)).Msg("room closed")
		return
	}
	log.Info().Str("module", "core.registry").Str("sid", string(mid)).Str("room", string(m.Room)).Msg("member left")
	r.notifyCountLocked(m.Room)
}

// notifyCountLocked fans the current size out to the room. Caller holds r.mu.
func (r *Registry) notifyCountLocked(room domain.RoomID) {
	if r.notifier == nil {
		return
	}
	set := r.rooms[room]
	r.notifier.MemberCount(room, lo.Keys(set), len(set))
}
