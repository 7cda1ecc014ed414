package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/radixplay/rooms/internal/domain"
)

type roomState struct {
	Type string       `json:"type"`
	Room *domain.Room `json:"room"`
}

func (ctl *Controller) handleCreate(s *session, data []byte) {
	type createPayload struct {
		Type       string          `json:"type"`
		GameMode   domain.GameMode `json:"gameMode"`
		MaxPlayers int             `json:"maxPlayers"`
		Name       string          `json:"name,omitempty"`
	}
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create payload")
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed create_room")
		return
	}
	if room, _ := s.current(); room != nil {
		ctl.sendErrorCode(s.conn, "already_in_room", "leave current room first")
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(s.uid) {
		ctl.sendErrorCode(s.conn, "rate_limited", "too many attempts")
		return
	}
	if p.Name != "" {
		if err := ctl.Registry.UpdateName(s.uid, p.Name); err != nil {
			ctl.sendError(s.conn, err)
			return
		}
	}
	identity := ctl.Registry.GetOrCreate(s.uid)

	room, err := ctl.Rooms.Create(s.uid, identity.DisplayName, p.GameMode, p.MaxPlayers)
	if err != nil {
		ctl.sendError(s.conn, err)
		return
	}
	code := room.Snapshot().ID
	log.Info().Str("module", "signal").Str("uid", s.uid).Str("room", code).Msg("create room")
	s.attach(room, code)
	ctl.sendJSON(s.conn, map[string]any{"type": "room_created", "room": code})
}

func (ctl *Controller) handleJoin(s *session, data []byte) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		Name string `json:"name,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed join_room")
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(s.uid) {
		ctl.sendErrorCode(s.conn, "rate_limited", "too many attempts")
		return
	}
	if p.Name != "" {
		if err := ctl.Registry.UpdateName(s.uid, p.Name); err != nil {
			ctl.sendError(s.conn, err)
			return
		}
	}
	identity := ctl.Registry.GetOrCreate(s.uid)

	code := domain.NormalizeCode(p.Room)
	room, err := ctl.Rooms.Get(code)
	if err != nil {
		ctl.sendError(s.conn, err)
		return
	}

	// Switching rooms leaves the old one first, like a clean leave.
	if current, currentCode := s.current(); current != nil && currentCode != code {
		s.detach(true)
	}

	if err := room.Join(s.uid, identity.DisplayName); err != nil {
		ctl.sendError(s.conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("uid", s.uid).Str("room", code).Msg("join room")
	s.attach(room, code)
}

func (ctl *Controller) handleLeave(s *session) {
	log.Info().Str("module", "signal").Str("uid", s.uid).Msg("leave room")
	s.detach(true)
	ctl.sendJSON(s.conn, map[string]any{"type": "left"})
}
