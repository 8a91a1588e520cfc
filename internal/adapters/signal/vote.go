package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"flickpick/internal/core"
	"flickpick/internal/domain"
)

func (ctl *Controller) handleUpvote(
	sid domain.MemberID,
	conn core.SignalConnection,
	data []byte,
) {
	type votePayload struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	var p votePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad upvote payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	fresh, err := ctl.reg.Upvote(sid, p.ID)
	switch {
	case err != nil:
		ctl.ack(conn, err)
	case fresh:
		ctl.ack(conn, nil)
	default:
		// Repeated vote: the first one was already acknowledged and
		// checked, so stay quiet.
	}
}
