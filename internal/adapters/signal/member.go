package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"flickpick/internal/core"
	"flickpick/internal/domain"
)

// ack is the generic success/failure reply for mutating requests.
func (ctl *Controller) ack(conn core.SignalConnection, err error) {
	resp := struct {
		Type    string `json:"type"`
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}{
		Type:    "ack",
		Success: err == nil,
	}
	if err != nil {
		resp.Message = err.Error()
	}
	ctl.sendJSON(conn, resp)
}

// decodeValue pulls the raw "value" field out of the envelope. Validation
// of its shape belongs to the registry, not the transport.
func decodeValue(data []byte) (any, error) {
	var p struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	var value any
	if len(p.Value) > 0 {
		if err := json.Unmarshal(p.Value, &value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (ctl *Controller) handleSetServer(
	sid domain.MemberID,
	conn core.SignalConnection,
	data []byte,
) {
	value, err := decodeValue(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad set_server payload")
		ctl.ack(conn, core.ErrInvalidPayload)
		return
	}
	ctl.ack(conn, ctl.reg.SetServer(sid, value))
}

func (ctl *Controller) handleSetLibrary(
	sid domain.MemberID,
	conn core.SignalConnection,
	data []byte,
) {
	value, err := decodeValue(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad set_library payload")
		ctl.ack(conn, core.ErrInvalidPayload)
		return
	}
	ctl.ack(conn, ctl.reg.SetLibrary(sid, value))
}
