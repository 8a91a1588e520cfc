package core

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"flickpick/internal/domain"
)

// Upvote records mid's vote for an item and re-checks the room for
// consensus. It reports whether the vote was fresh: a repeated vote for the
// same item is a silent no-op, since the room already ran its check when
// the vote first landed and re-signalling consensus on redundant votes
// would spam everyone.
func (r *Registry) Upvote(mid domain.MemberID, itemID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[mid]
	if !ok {
		return false, ErrMemberNotFound
	}
	if _, voted := m.Upvotes[itemID]; voted {
		return false, nil
	}
	m.Upvotes[itemID] = struct{}{}
	log.Debug().Str("module", "core.consensus").Str("sid", string(mid)).Str("item", itemID).Msg("upvote")
	r.checkConsensusLocked(m.Room, itemID)
	return true, nil
}

// checkConsensusLocked re-scans the full membership instead of keeping a
// tally: a cached count goes stale whenever someone joins or leaves
// mid-vote, and a late joiner who has not voted must block consensus.
// Rooms are small human groups, so the O(members) scan per vote is fine.
// Caller holds r.mu.
func (r *Registry) checkConsensusLocked(room domain.RoomID, itemID string) {
	set, ok := r.rooms[room]
	if !ok {
		return
	}
	members := lo.Keys(set)
	unanimous := lo.EveryBy(members, func(mid domain.MemberID) bool {
		_, voted := r.members[mid].Upvotes[itemID]
		return voted
	})
	if !unanimous {
		return
	}
	log.Info().Str("module", "core.consensus").Str("room", string(room)).Str("item", itemID).Msg("consensus reached")
	if r.notifier != nil {
		r.notifier.ConsensusReached(room, members, itemID)
	}
}
