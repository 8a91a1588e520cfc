package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"flickpick/internal/config"
	"flickpick/internal/core"
	"flickpick/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the websocket dispatcher: it routes inbound envelopes to
// registry operations and fans registry notifications back out to room
// members. It implements core.Notifier.
type Controller struct {
	cfg *config.Config
	reg *core.Registry

	mu    sync.RWMutex
	conns map[domain.MemberID]core.SignalConnection
}

func NewController(cfg *config.Config) *Controller {
	ctl := &Controller{
		cfg:   cfg,
		conns: make(map[domain.MemberID]core.SignalConnection),
	}
	ctl.reg = core.NewRegistry(ctl)
	return ctl
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.MemberID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	ctl.bind(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
	}()
	go ctl.writePump(ctx, conn)
}

func (ctl *Controller) bind(sid domain.MemberID, conn core.SignalConnection) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.conns[sid] = conn
}

func (ctl *Controller) unbind(sid domain.MemberID) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	delete(ctl.conns, sid)
}

// MemberCount implements core.Notifier.
func (ctl *Controller) MemberCount(room domain.RoomID, members []domain.MemberID, count int) {
	resp := struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}{
		Type:  "member_count",
		Count: count,
	}
	ctl.broadcast(members, resp)
}

// ConsensusReached implements core.Notifier.
func (ctl *Controller) ConsensusReached(room domain.RoomID, members []domain.MemberID, itemID string) {
	resp := struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}{
		Type: "consensus",
		ID:   itemID,
	}
	ctl.broadcast(members, resp)
}

func (ctl *Controller) broadcast(members []domain.MemberID, v any) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	for _, mid := range members {
		if conn, ok := ctl.conns[mid]; ok {
			ctl.sendJSON(conn, v)
		}
	}
}
