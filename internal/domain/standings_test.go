package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roomWith(mode GameMode, players ...*RoomPlayer) *Room {
	r := &Room{ID: "AB12CD34", GameMode: mode, Players: make(map[string]*RoomPlayer)}
	for _, p := range players {
		r.Players[p.UID] = p
	}
	return r
}

func TestStandings(t *testing.T) {
	tests := []struct {
		name    string
		mode    GameMode
		players []*RoomPlayer
		want    []string
	}{
		{
			name: "timed higher score first",
			mode: GameMode{Duration: 60},
			players: []*RoomPlayer{
				{UID: "a", Score: 3, JoinOrder: 0},
				{UID: "b", Score: 8, JoinOrder: 1},
				{UID: "c", Score: 5, JoinOrder: 2},
			},
			want: []string{"b", "c", "a"},
		},
		{
			name: "speedrun lower time first",
			mode: GameMode{TargetQuestions: 10},
			players: []*RoomPlayer{
				{UID: "a", Score: 58, JoinOrder: 0},
				{UID: "b", Score: 42, JoinOrder: 1},
			},
			want: []string{"b", "a"},
		},
		{
			name: "tie keeps join order",
			mode: GameMode{Duration: 60},
			players: []*RoomPlayer{
				{UID: "late", Score: 5, JoinOrder: 2},
				{UID: "early", Score: 5, JoinOrder: 1},
			},
			want: []string{"early", "late"},
		},
		{
			name: "kicked players excluded",
			mode: GameMode{Duration: 60},
			players: []*RoomPlayer{
				{UID: "a", Score: 9, JoinOrder: 0, Kicked: true},
				{UID: "b", Score: 1, JoinOrder: 1},
			},
			want: []string{"b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roomWith(tt.mode, tt.players...)
			got := r.Standings()
			require.Len(t, got, len(tt.want))
			for i, uid := range tt.want {
				require.Equal(t, uid, got[i].UID)
			}
			if len(tt.want) > 0 {
				require.Equal(t, tt.want[0], r.Winner().UID)
			}
		})
	}
}

func TestFirstActive(t *testing.T) {
	r := roomWith(GameMode{Duration: 60},
		&RoomPlayer{UID: "a", JoinOrder: 1, Kicked: true},
		&RoomPlayer{UID: "b", JoinOrder: 2},
	)
	require.Equal(t, "b", r.FirstActive().UID)

	r.Players["b"].Kicked = true
	require.Nil(t, r.FirstActive())
}

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "AB12CD34", NormalizeCode("ab12cd34"))
	require.Equal(t, "AB12CD34", NormalizeCode("  Ab12Cd34\n"))
}

func TestValidateDisplayName(t *testing.T) {
	require.ErrorIs(t, ValidateDisplayName(""), ErrNameEmpty)
	require.ErrorIs(t, ValidateDisplayName(string(make([]byte, MaxDisplayNameLen+1))), ErrNameTooLong)
	require.NoError(t, ValidateDisplayName("Lena"))
}

func TestClone_IsDeep(t *testing.T) {
	r := roomWith(GameMode{Duration: 60}, &RoomPlayer{UID: "a", Score: 1})
	cp := r.Clone()
	cp.Players["a"].Score = 99
	require.Equal(t, 1, r.Players["a"].Score)
}
