package signal

import (
	"encoding/json"

	"github.com/radixplay/rooms/internal/domain"
)

func (ctl *Controller) handleKickPlayer(s *session, data []byte) {
	var p struct {
		Type string `json:"type"`
		UID  string `json:"uid"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.UID == "" {
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed kick_player")
		return
	}
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.KickPlayer(s.uid, p.UID); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleTransferHost(s *session, data []byte) {
	var p struct {
		Type string `json:"type"`
		UID  string `json:"uid"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.UID == "" {
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed transfer_host")
		return
	}
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.TransferHost(s.uid, p.UID); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleUpdateSettings(s *session, data []byte) {
	var p struct {
		Type string `json:"type"`
		domain.SettingsPatch
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed update_settings")
		return
	}
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.UpdateSettings(s.uid, p.SettingsPatch); err != nil {
		ctl.sendError(s.conn, err)
	}
}

func (ctl *Controller) handleUpdateGameMode(s *session, data []byte) {
	var p struct {
		Type     string          `json:"type"`
		GameMode domain.GameMode `json:"gameMode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendErrorCode(s.conn, "bad_payload", "malformed update_game_mode")
		return
	}
	room, ok := ctl.requireRoom(s)
	if !ok {
		return
	}
	if err := room.UpdateGameMode(s.uid, p.GameMode); err != nil {
		ctl.sendError(s.conn, err)
	}
}
