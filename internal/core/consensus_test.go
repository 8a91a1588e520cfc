package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flickpick/internal/domain"
)

func TestUpvote_MemberNotFound(t *testing.T) {
	reg := NewRegistry(nil)

	fresh, err := reg.Upvote("ghost", "42")
	require.ErrorIs(t, err, ErrMemberNotFound)
	require.False(t, fresh)
}

func TestUpvote_DuplicateIsSilentNoop(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)

	id := reg.CreateRoom("alice")
	_, _, err := reg.JoinRoom("bob", id)
	require.NoError(t, err)

	fresh, err := reg.Upvote("alice", "42")
	require.NoError(t, err)
	require.True(t, fresh)

	fresh, err = reg.Upvote("alice", "42")
	require.NoError(t, err)
	require.False(t, fresh)
	require.Empty(t, rec.consensus, "a duplicate vote must not reach consensus on its own")
}

func TestConsensus_FiresOnLastVoteOnly(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)

	id := reg.CreateRoom("alice")
	_, _, err := reg.JoinRoom("bob", id)
	require.NoError(t, err)

	_, err = reg.Upvote("alice", "42")
	require.NoError(t, err)
	require.Empty(t, rec.consensus, "half the room voting is not consensus")

	_, err = reg.Upvote("bob", "42")
	require.NoError(t, err)

	require.Len(t, rec.consensus, 1)
	ev := rec.consensus[0]
	require.Equal(t, id, ev.room)
	require.Equal(t, "42", ev.itemID)
	require.ElementsMatch(t, []domain.MemberID{"alice", "bob"}, ev.members)
}

func TestConsensus_SoloRoomIsImmediate(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)

	reg.CreateRoom("alice")
	_, err := reg.Upvote("alice", "7")
	require.NoError(t, err)
	require.Len(t, rec.consensus, 1)
}

// A member joining after consensus resets the "all voted" condition: only
// their own vote may re-trigger it, never a redundant vote from the others.
func TestConsensus_LateJoinerBlocksUntilTheyVote(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)

	id := reg.CreateRoom("alice")
	_, _, err := reg.JoinRoom("bob", id)
	require.NoError(t, err)

	_, err = reg.Upvote("alice", "42")
	require.NoError(t, err)
	_, err = reg.Upvote("bob", "42")
	require.NoError(t, err)
	require.Len(t, rec.consensus, 1)

	_, _, err = reg.JoinRoom("carol", id)
	require.NoError(t, err)

	fresh, err := reg.Upvote("alice", "42")
	require.NoError(t, err)
	require.False(t, fresh)
	require.Len(t, rec.consensus, 1, "redundant vote must not re-trigger consensus")

	_, err = reg.Upvote("carol", "42")
	require.NoError(t, err)
	require.Len(t, rec.consensus, 2)
	require.Equal(t, "42", rec.consensus[1].itemID)
	require.Len(t, rec.consensus[1].members, 3)
}

func TestConsensus_PerItemVoteSets(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)

	id := reg.CreateRoom("alice")
	_, _, err := reg.JoinRoom("bob", id)
	require.NoError(t, err)

	_, err = reg.Upvote("alice", "1")
	require.NoError(t, err)
	_, err = reg.Upvote("bob", "2")
	require.NoError(t, err)
	require.Empty(t, rec.consensus, "votes on different items never agree")

	_, err = reg.Upvote("bob", "1")
	require.NoError(t, err)
	require.Len(t, rec.consensus, 1)
	require.Equal(t, "1", rec.consensus[0].itemID)
}

func TestConsensus_VotesDoNotSurviveRejoin(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)

	id := reg.CreateRoom("alice")
	_, _, err := reg.JoinRoom("bob", id)
	require.NoError(t, err)

	_, err = reg.Upvote("bob", "42")
	require.NoError(t, err)

	// Bob drops and comes back: his upvote set starts over, so Alice's
	// vote alone cannot complete the room.
	reg.Disconnect("bob")
	_, _, err = reg.JoinRoom("bob", id)
	require.NoError(t, err)

	_, err = reg.Upvote("alice", "42")
	require.NoError(t, err)
	require.Empty(t, rec.consensus)

	_, err = reg.Upvote("bob", "42")
	require.NoError(t, err)
	require.Len(t, rec.consensus, 1)
}
