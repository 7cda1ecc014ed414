package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handlePing(conn *WsConn) {
	ctl.sendJSON(conn, map[string]any{"type": "pong"})
}

func (ctl *Controller) handleWhoAmI(s *session) {
	identity := ctl.Registry.GetOrCreate(s.uid)
	resp := struct {
		Type        string `json:"type"`
		UID         string `json:"uid"`
		DisplayName string `json:"displayName"`
		Room        string `json:"room,omitempty"`
	}{
		Type:        "whoami",
		UID:         identity.UID,
		DisplayName: identity.DisplayName,
	}
	if _, code := s.current(); code != "" {
		resp.Room = code
	}
	ctl.sendJSON(s.conn, resp)
}

func (ctl *Controller) handleRename(s *session, data []byte) {
	var p struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad rename payload")
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed rename")
		return
	}
	if err := ctl.Registry.UpdateName(s.uid, p.Name); err != nil {
		ctl.sendError(s.conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("uid", s.uid).Str("name", p.Name).Msg("rename")
	ctl.handleWhoAmI(s)
}
