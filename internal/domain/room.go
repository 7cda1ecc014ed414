// Package domain contains entity without logic, just meta-data
package domain

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

const (
	MinPlayers = 2
	MaxPlayers = 10
)

// Room is one match instance, identified by its join code.
type Room struct {
	ID         string                 `json:"id"`
	HostUID    string                 `json:"hostUid"`
	GameMode   GameMode               `json:"gameMode"`
	Players    map[string]*RoomPlayer `json:"players"`
	Status     RoomStatus             `json:"status"`
	CreatedAt  int64                  `json:"createdAt"`
	StartedAt  int64                  `json:"startedAt,omitempty"`
	MaxPlayers int                    `json:"maxPlayers"`
	Settings   RoomSettings           `json:"settings"`
}

// RoomPlayer is one participant's record, embedded in the room.
// JoinOrder is the canonical iteration key: host promotion, self-heal
// and standings tie-breaks all pick the lowest JoinOrder first.
type RoomPlayer struct {
	UID          string `json:"uid"`
	DisplayName  string `json:"displayName"`
	Ready        bool   `json:"ready"`
	Score        int    `json:"score"`
	Finished     bool   `json:"finished"`
	Wins         int    `json:"wins"`
	Disconnected bool   `json:"disconnected"`
	Kicked       bool   `json:"kicked"`
	JoinOrder    int64  `json:"joinOrder"`
}

// RoomSettings are host-controlled knobs, mutable only while waiting.
type RoomSettings struct {
	AllowVisualAids bool `json:"allowVisualAids"`
	EnableCountdown bool `json:"enableCountdown"`
}

// SettingsPatch carries only the fields the host wants to change.
type SettingsPatch struct {
	AllowVisualAids *bool `json:"allowVisualAids,omitempty"`
	EnableCountdown *bool `json:"enableCountdown,omitempty"`
}

// Active reports whether the player counts toward readiness, capacity
// and standings. Kicked players keep their record but stop counting.
func (p *RoomPlayer) Active() bool {
	return p != nil && !p.Kicked
}

// ActiveCount counts non-kicked players.
func (r *Room) ActiveCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Active() {
			n++
		}
	}
	return n
}

// Player returns the record for uid, or nil.
func (r *Room) Player(uid string) *RoomPlayer {
	return r.Players[uid]
}

// Host returns the current host's record, or nil when orphaned.
func (r *Room) Host() *RoomPlayer {
	return r.Players[r.HostUID]
}

// Clone makes a deep copy safe to hand to subscribers.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = make(map[string]*RoomPlayer, len(r.Players))
	for uid, p := range r.Players {
		pc := *p
		cp.Players[uid] = &pc
	}
	return &cp
}
