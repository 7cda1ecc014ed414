package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/radixplay/rooms/internal/app"
	"github.com/radixplay/rooms/internal/core"
	"github.com/radixplay/rooms/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the websocket front of the room service: one envelope
// per operation, one subscription stream per attached connection.
type Controller struct {
	Rooms    *app.RoomManager
	Registry *app.Registry
	Limiter  *app.JoinRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(rooms *app.RoomManager, registry *app.Registry, limiter *app.JoinRateLimiter, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Rooms:      rooms,
		Registry:   registry,
		Limiter:    limiter,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

type WsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
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

// session is the per-connection state: who is talking and which room
// they are attached to.
type session struct {
	ctl  *Controller
	uid  string
	conn *WsConn

	mu        sync.Mutex
	room      core.RoomService
	code      string
	cancelSub core.CancelFunc
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	uid := c.GetString("client_token")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}
	log.Info().Str("module", "signal").Str("uid", uid).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan []byte, 32),
	}
	ctl.Registry.GetOrCreate(uid)

	sess := &session{ctl: ctl, uid: uid, conn: conn}
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sess)
	}()
}

// attach binds the session to a room and starts draining its
// subscription into the websocket.
func (s *session) attach(room core.RoomService, code string) {
	s.detach(false)
	events, cancelSub := room.Subscribe(s.uid)
	s.mu.Lock()
	s.room = room
	s.code = code
	s.cancelSub = cancelSub
	s.mu.Unlock()
	s.ctl.Registry.BindRoom(s.uid, code)
	go s.drain(events)
}

// detach unsubscribes and optionally runs the leave path. leave=true
// is the clean leave; leave=false is a re-attach or a close notice
// where the room already forgot us.
func (s *session) detach(leave bool) {
	s.mu.Lock()
	room := s.room
	cancelSub := s.cancelSub
	s.room = nil
	s.code = ""
	s.cancelSub = nil
	s.mu.Unlock()
	if cancelSub != nil {
		cancelSub()
	}
	if room == nil {
		return
	}
	s.ctl.Registry.ClearRoom(s.uid)
	if leave {
		if err := room.Leave(s.uid); err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
			log.Error().Err(err).Str("module", "signal").Str("uid", s.uid).Msg("leave on detach")
		}
	}
}

func (s *session) current() (core.RoomService, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room, s.code
}

// teardown is the disconnect hook of this design: a connection that
// drops without a clean leave still has its player entry removed.
func (s *session) teardown() {
	s.detach(true)
	s.conn.Close()
}

func (ctl *Controller) sendJSON(c *WsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
