package signal

import (
	"errors"

	"github.com/radixplay/rooms/internal/domain"
)

// errorCode maps domain failures to wire codes the client switches on.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrRoomNotAcceptingPlayers):
		return "room_not_accepting"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, domain.ErrPlayersNotReady):
		return "players_not_ready"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, domain.ErrInvalidMaxPlayers):
		return "invalid_max_players"
	case errors.Is(err, domain.ErrNameEmpty), errors.Is(err, domain.ErrNameTooLong):
		return "invalid_name"
	default:
		return "internal"
	}
}

func (ctl *Controller) sendError(conn *WsConn, err error) {
	ctl.sendErrorCode(conn, errorCode(err), err.Error())
}

func (ctl *Controller) sendErrorCode(conn *WsConn, code, msg string) {
	ctl.sendJSON(conn, map[string]any{
		"type":  "error",
		"code":  code,
		"error": msg,
	})
}
