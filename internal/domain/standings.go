package domain

import "sort"

// OrderedPlayers returns every player ascending by join order.
func (r *Room) OrderedPlayers() []*RoomPlayer {
	out := make([]*RoomPlayer, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinOrder < out[j].JoinOrder })
	return out
}

// ActivePlayers returns non-kicked players ascending by join order.
func (r *Room) ActivePlayers() []*RoomPlayer {
	out := make([]*RoomPlayer, 0, len(r.Players))
	for _, p := range r.OrderedPlayers() {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// FirstActive is the deterministic "first remaining player" used for
// host promotion and self-heal. Nil when no active player remains.
func (r *Room) FirstActive() *RoomPlayer {
	players := r.ActivePlayers()
	if len(players) == 0 {
		return nil
	}
	return players[0]
}

// Standings orders active players best-first: ascending score for
// speedrun (elapsed seconds), descending for timed (correct answers).
// Equal scores keep join order, so the earlier joiner ranks first.
func (r *Room) Standings() []*RoomPlayer {
	out := r.ActivePlayers()
	speedrun := r.GameMode.Speedrun()
	sort.SliceStable(out, func(i, j int) bool {
		if speedrun {
			return out[i].Score < out[j].Score
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// Winner is the head of the standings, or nil for an empty room.
func (r *Room) Winner() *RoomPlayer {
	s := r.Standings()
	if len(s) == 0 {
		return nil
	}
	return s[0]
}
