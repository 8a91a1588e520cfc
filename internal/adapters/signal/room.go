package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"flickpick/internal/core"
	"flickpick/internal/domain"
)

func (ctl *Controller) handleCreate(
	sid domain.MemberID,
	conn core.SignalConnection,
) {
	id := ctl.reg.CreateRoom(sid)
	resp := struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}{
		Type: "room_created",
		ID:   string(id),
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *Controller) handleJoin(
	sid domain.MemberID,
	conn core.SignalConnection,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	server, library, err := ctl.reg.JoinRoom(sid, domain.RoomID(p.Room))
	if err != nil {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("join failed")
		resp := struct {
			Type    string `json:"type"`
			Success bool   `json:"success"`
			Message string `json:"message"`
		}{
			Type:    "join_result",
			Success: false,
			Message: err.Error(),
		}
		ctl.sendJSON(conn, resp)
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("join")
	resp := struct {
		Type    string `json:"type"`
		Success bool   `json:"success"`
		Server  any    `json:"server"`
		Library any    `json:"library"`
	}{
		Type:    "join_result",
		Success: true,
		Server:  server,
		Library: library,
	}
	ctl.sendJSON(conn, resp)
}

// handleCount re-requests the member-count broadcast. There is no direct
// reply; unknown rooms are dropped silently.
func (ctl *Controller) handleCount(
	sid domain.MemberID,
	data []byte,
) {
	type countPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p countPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad count payload")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("count request")
	ctl.reg.RequestMemberCount(domain.RoomID(p.Room))
}
