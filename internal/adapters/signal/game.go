package signal

import (
	"encoding/json"

	"github.com/radixplay/rooms/internal/core"
	"github.com/radixplay/rooms/internal/domain"
)

// requireRoom resolves the session's attached room; operations outside
// a room fail the same way as a missing room id would.
func (ctl *Controller) requireRoom(s *session) (core.RoomService, bool) {
	room, _ := s.current()
	if room == nil {
		ctl.sendError(s.conn, domain.ErrRoomNotFound)
		return nil, false
	}
	return room, true
}

func (ctl *Controller) handleSetReady(s *session, data []byte) {
	var p struct {
		Type  string `json:"type"`
		Ready bool   `json:"ready"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed set_ready")
		return
	}
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.SetReady(s.uid, p.Ready); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleStartGame(s *session) {
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.StartGame(s.uid); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleUpdateScore(s *session, data []byte) {
	var p struct {
		Type  string `json:"type"`
		Score int    `json:"score"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed update_score")
		return
	}
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.UpdateScore(s.uid, p.Score); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleFinishGame(s *session) {
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.FinishGame(s.uid); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleResetRoom(s *session) {
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.Reset(s.uid); err != nil {
		ctl.sendError(s.conn, err)
	}
}
