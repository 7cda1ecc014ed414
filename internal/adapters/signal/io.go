package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/radixplay/rooms/internal/core"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, s *session) {
	defer func() {
		log.Info().Str("module", "signal").Str("uid", s.uid).Msg("readPump closing")
		s.teardown()
	}()

	c := s.conn
	c.conn.SetReadLimit(ctl.ReadLimit)
	pongWait := ctl.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("uid", s.uid).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("uid", s.uid).Msg("readPump read error")
				return
			}
			ctl.handleMessage(s, data)
		}
	}
}

func (ctl *Controller) handleMessage(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed message")
		return
	}

	switch env.Type {
	case "create_room":
		ctl.handleCreate(s, data)
	case "join_room":
		ctl.handleJoin(s, data)
	case "leave_room":
		ctl.handleLeave(s)
	case "set_ready":
		ctl.handleSetReady(s, data)
	case "start_game":
		ctl.handleStartGame(s)
	case "update_score":
		ctl.handleUpdateScore(s, data)
	case "finish_game":
		ctl.handleFinishGame(s)
	case "reset_room":
		ctl.handleResetRoom(s)
	case "kick_player":
		ctl.handleKickPlayer(s, data)
	case "transfer_host":
		ctl.handleTransferHost(s, data)
	case "update_settings":
		ctl.handleUpdateSettings(s, data)
	case "update_game_mode":
		ctl.handleUpdateGameMode(s, data)
	case "ping":
		ctl.handlePing(s.conn)
	case "whoami":
		ctl.handleWhoAmI(s)
	case "rename":
		ctl.handleRename(s, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendErrorCode(s.conn, "unknown_type", env.Type)
	}
}

// drain forwards subscription events until the room closes or the
// subscription is cancelled.
func (s *session) drain(events <-chan core.Event) {
	for ev := range events {
		switch {
		case ev.Kicked:
			s.ctl.sendJSON(s.conn, map[string]any{"type": "kicked"})
		case ev.Room == nil:
			s.ctl.sendJSON(s.conn, map[string]any{"type": "room_closed"})
			s.detach(false)
			return
		default:
			s.ctl.sendJSON(s.conn, roomState{Type: "room_state", Room: ev.Room})
		}
	}
}
