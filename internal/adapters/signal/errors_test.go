package signal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radixplay/rooms/internal/domain"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrRoomNotFound, "room_not_found"},
		{domain.ErrRoomNotAcceptingPlayers, "room_not_accepting"},
		{domain.ErrRoomFull, "room_full"},
		{domain.ErrPermissionDenied, "permission_denied"},
		{domain.ErrPlayersNotReady, "players_not_ready"},
		{domain.ErrNotAuthenticated, "not_authenticated"},
		{domain.ErrInvalidMaxPlayers, "invalid_max_players"},
		{domain.ErrNameEmpty, "invalid_name"},
		{domain.ErrNameTooLong, "invalid_name"},
		{fmt.Errorf("load room: %w", domain.ErrRoomNotFound), "room_not_found"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, errorCode(tt.err), tt.want)
	}
}
