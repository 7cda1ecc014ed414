package core

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/radixplay/rooms/internal/domain"
)

const subscriberBuffer = 8

// errStale aborts a timer-driven mutation that lost its race with a
// reset or a newer match; mutate never commits on error.
var errStale = errors.New("stale timer")

// roomImpl serializes all mutations for one room behind a mutex, which
// is what makes host promotion and win crediting race-free here.
// It never touches transport or storage; hooks report committed state.
type roomImpl struct {
	mu    sync.Mutex
	state *domain.Room
	hooks Hooks

	nextJoin     int64
	matchSeq     uint64
	winsCredited bool
	timer        *time.Timer

	subs    map[int]*subscriber
	nextSub int
	closed  bool
}

type subscriber struct {
	uid        string
	ch         chan Event
	kickedSent bool
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// NewRoom creates a room with the creator as host, already ready.
func NewRoom(id, hostUID, hostName string, mode domain.GameMode, maxPlayers int, hooks Hooks) (RoomService, error) {
	if maxPlayers < domain.MinPlayers || maxPlayers > domain.MaxPlayers {
		return nil, domain.ErrInvalidMaxPlayers
	}
	state := &domain.Room{
		ID:       id,
		HostUID:  hostUID,
		GameMode: mode,
		Players: map[string]*domain.RoomPlayer{
			hostUID: {UID: hostUID, DisplayName: hostName, Ready: true},
		},
		Status:     domain.StatusWaiting,
		CreatedAt:  nowMillis(),
		MaxPlayers: maxPlayers,
	}
	r := &roomImpl{
		state:    state,
		hooks:    hooks,
		nextJoin: 1,
		subs:     make(map[int]*subscriber),
	}
	log.Info().Str("module", "core.room").Str("room", id).Str("host", hostUID).Msg("room created")
	return r, nil
}

// Restore rebuilds a room from a persisted snapshot. A running timed
// match gets its countdown re-armed for whatever time remains.
func Restore(state *domain.Room, hooks Hooks) RoomService {
	r := &roomImpl{
		state: state,
		hooks: hooks,
		subs:  make(map[int]*subscriber),
	}
	for _, p := range state.Players {
		if p.JoinOrder >= r.nextJoin {
			r.nextJoin = p.JoinOrder + 1
		}
	}
	if state.Status == domain.StatusPlaying {
		r.matchSeq = 1
		if !state.GameMode.Speedrun() && state.GameMode.Duration > 0 {
			remaining := time.Duration(state.StartedAt+int64(state.GameMode.Duration)*1000-nowMillis()) * time.Millisecond
			if remaining < 0 {
				remaining = 0
			}
			r.armTimerLocked(remaining)
		}
	}
	log.Info().Str("module", "core.room").Str("room", state.ID).Msg("room restored")
	return r
}

// mutate runs fn under the room lock and, if it succeeds, commits:
// self-heal, fan-out, then hooks (outside the lock). fn must not
// change state before its last validation check.
func (r *roomImpl) mutate(fn func() error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return domain.ErrRoomNotFound
	}
	if err := fn(); err != nil {
		r.mu.Unlock()
		return err
	}
	post := r.commitLocked()
	r.mu.Unlock()
	post()
	return nil
}

// commitLocked returns the hook call to run after the lock is released.
func (r *roomImpl) commitLocked() func() {
	r.healLocked()
	if r.closed {
		id := r.state.ID
		onClose := r.hooks.OnClose
		return func() {
			if onClose != nil {
				onClose(id)
			}
		}
	}
	r.broadcastLocked()
	snap := r.state.Clone()
	onChange := r.hooks.OnChange
	return func() {
		if onChange != nil {
			onChange(snap)
		}
	}
}

// healLocked repairs divergence instead of reporting it: a room with no
// active players closes, an orphaned host is replaced by the first
// active player in join order, who is forced ready.
func (r *roomImpl) healLocked() {
	if r.state.ActiveCount() == 0 {
		r.closeLocked()
		return
	}
	host := r.state.Host()
	if host.Active() {
		return
	}
	next := r.state.FirstActive()
	r.state.HostUID = next.UID
	next.Ready = true
	log.Info().Str("module", "core.room").Str("room", r.state.ID).Str("host", next.UID).Msg("host re-elected")
}

func (r *roomImpl) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	r.stopTimerLocked()
	for _, s := range r.subs {
		trySend(s.ch, Event{})
		close(s.ch)
	}
	r.subs = nil
	log.Info().Str("module", "core.room").Str("room", r.state.ID).Msg("room closed")
}

func (r *roomImpl) broadcastLocked() {
	snap := r.state.Clone()
	for _, s := range r.subs {
		p := r.state.Player(s.uid)
		if p != nil && p.Kicked {
			if !s.kickedSent {
				s.kickedSent = true
				trySend(s.ch, Event{Kicked: true})
			}
			continue
		}
		s.kickedSent = false
		trySend(s.ch, Event{Room: snap})
	}
}

// trySend drops on a full buffer; a subscriber that lags just sees the
// next snapshot instead.
func trySend(ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
	}
}

func (r *roomImpl) Snapshot() *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

func (r *roomImpl) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *roomImpl) Heal() {
	_ = r.mutate(func() error { return nil })
}

func (r *roomImpl) Subscribe(uid string) (<-chan Event, CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	if r.closed {
		ch <- Event{}
		close(ch)
		return ch, func() {}
	}
	token := r.nextSub
	r.nextSub++
	sub := &subscriber{uid: uid, ch: ch}
	r.subs[token] = sub
	if p := r.state.Player(uid); p != nil && p.Kicked {
		sub.kickedSent = true
		ch <- Event{Kicked: true}
	} else {
		ch <- Event{Room: r.state.Clone()}
	}
	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subs[token]; !ok {
			return
		}
		delete(r.subs, token)
		close(ch)
	}
}

func (r *roomImpl) Join(uid, displayName string) error {
	return r.mutate(func() error {
		if r.state.Status != domain.StatusWaiting {
			return domain.ErrRoomNotAcceptingPlayers
		}
		existing := r.state.Player(uid)
		if (existing == nil || existing.Kicked) && r.state.ActiveCount() >= r.state.MaxPlayers {
			return domain.ErrRoomFull
		}
		if existing != nil {
			// Reconnect: overwrite stale flags, keep wins and seat order.
			existing.DisplayName = displayName
			existing.Ready = false
			existing.Score = 0
			existing.Finished = false
			existing.Disconnected = false
			existing.Kicked = false
			return nil
		}
		r.state.Players[uid] = &domain.RoomPlayer{
			UID:         uid,
			DisplayName: displayName,
			JoinOrder:   r.nextJoin,
		}
		r.nextJoin++
		log.Info().Str("module", "core.room").Str("room", r.state.ID).Str("uid", uid).Msg("player joined")
		return nil
	})
}

func (r *roomImpl) Leave(uid string) error {
	return r.mutate(func() error {
		p := r.state.Player(uid)
		if p == nil {
			return nil
		}
		wasHost := uid == r.state.HostUID
		delete(r.state.Players, uid)
		log.Info().Str("module", "core.room").Str("room", r.state.ID).Str("uid", uid).Msg("player left")
		if r.state.ActiveCount() == 0 {
			return nil // commit closes the room
		}
		if wasHost {
			next := r.state.FirstActive()
			r.state.HostUID = next.UID
			next.Ready = true
			if r.state.Status == domain.StatusPlaying {
				// Mid-game host departure voids the match.
				r.voidMatchLocked()
			}
			return nil
		}
		if r.state.Status == domain.StatusPlaying && r.allActiveFinishedLocked() {
			r.finishMatchLocked()
		}
		return nil
	})
}

func (r *roomImpl) SetReady(uid string, ready bool) error {
	return r.mutate(func() error {
		p := r.state.Player(uid)
		if p == nil {
			return domain.ErrPermissionDenied
		}
		p.Ready = ready
		return nil
	})
}

func (r *roomImpl) StartGame(callerUID string) error {
	return r.mutate(func() error {
		if callerUID != r.state.HostUID {
			return domain.ErrPermissionDenied
		}
		if r.state.Status != domain.StatusWaiting {
			return domain.ErrRoomNotAcceptingPlayers
		}
		others := 0
		for _, p := range r.state.ActivePlayers() {
			if p.UID == r.state.HostUID {
				continue
			}
			others++
			if !p.Ready {
				return domain.ErrPlayersNotReady
			}
		}
		if others == 0 {
			return domain.ErrPlayersNotReady
		}
		r.matchSeq++
		r.winsCredited = false
		r.state.Status = domain.StatusPlaying
		r.state.StartedAt = nowMillis()
		if !r.state.GameMode.Speedrun() && r.state.GameMode.Duration > 0 {
			r.armTimerLocked(time.Duration(r.state.GameMode.Duration) * time.Second)
		}
		log.Info().Str("module", "core.room").Str("room", r.state.ID).Msg("game started")
		return nil
	})
}

func (r *roomImpl) UpdateScore(uid string, score int) error {
	return r.mutate(func() error {
		p := r.state.Player(uid)
		if p == nil {
			return domain.ErrPermissionDenied
		}
		p.Score = score
		return nil
	})
}

func (r *roomImpl) FinishGame(uid string) error {
	return r.mutate(func() error {
		p := r.state.Player(uid)
		if p == nil {
			return domain.ErrPermissionDenied
		}
		p.Finished = true
		if r.state.Status == domain.StatusPlaying && r.allActiveFinishedLocked() {
			r.finishMatchLocked()
		}
		return nil
	})
}

func (r *roomImpl) Reset(callerUID string) error {
	return r.mutate(func() error {
		if callerUID != r.state.HostUID {
			return domain.ErrPermissionDenied
		}
		r.resetMatchLocked()
		log.Info().Str("module", "core.room").Str("room", r.state.ID).Msg("room reset")
		return nil
	})
}

func (r *roomImpl) IncrementWins(winnerUID string) error {
	return r.mutate(func() error {
		p := r.state.Player(winnerUID)
		if p == nil {
			return domain.ErrPermissionDenied
		}
		if r.winsCredited {
			return nil // already credited for this match
		}
		p.Wins++
		r.winsCredited = true
		return nil
	})
}

func (r *roomImpl) UpdateGameMode(callerUID string, mode domain.GameMode) error {
	return r.mutate(func() error {
		if callerUID != r.state.HostUID {
			return domain.ErrPermissionDenied
		}
		if r.state.Status != domain.StatusWaiting {
			return domain.ErrRoomNotAcceptingPlayers
		}
		r.state.GameMode = mode
		return nil
	})
}

func (r *roomImpl) KickPlayer(callerUID, targetUID string) error {
	return r.mutate(func() error {
		if callerUID != r.state.HostUID || targetUID == callerUID {
			return domain.ErrPermissionDenied
		}
		p := r.state.Player(targetUID)
		if p == nil {
			return domain.ErrPermissionDenied
		}
		p.Kicked = true
		log.Info().Str("module", "core.room").Str("room", r.state.ID).Str("uid", targetUID).Msg("player kicked")
		if r.state.Status == domain.StatusPlaying && r.allActiveFinishedLocked() {
			r.finishMatchLocked()
		}
		return nil
	})
}

func (r *roomImpl) TransferHost(callerUID, newHostUID string) error {
	return r.mutate(func() error {
		if callerUID != r.state.HostUID {
			return domain.ErrPermissionDenied
		}
		p := r.state.Player(newHostUID)
		if !p.Active() {
			return domain.ErrPermissionDenied
		}
		r.state.HostUID = newHostUID
		p.Ready = true
		log.Info().Str("module", "core.room").Str("room", r.state.ID).Str("host", newHostUID).Msg("host transferred")
		return nil
	})
}

func (r *roomImpl) UpdateSettings(callerUID string, patch domain.SettingsPatch) error {
	return r.mutate(func() error {
		if callerUID != r.state.HostUID {
			return domain.ErrPermissionDenied
		}
		if r.state.Status != domain.StatusWaiting {
			return domain.ErrRoomNotAcceptingPlayers
		}
		if patch.AllowVisualAids != nil {
			r.state.Settings.AllowVisualAids = *patch.AllowVisualAids
		}
		if patch.EnableCountdown != nil {
			r.state.Settings.EnableCountdown = *patch.EnableCountdown
		}
		return nil
	})
}

func (r *roomImpl) allActiveFinishedLocked() bool {
	for _, p := range r.state.ActivePlayers() {
		if !p.Finished {
			return false
		}
	}
	return true
}

// finishMatchLocked ends the match and credits the winner at most once.
func (r *roomImpl) finishMatchLocked() {
	r.state.Status = domain.StatusFinished
	r.stopTimerLocked()
	if !r.winsCredited {
		if w := r.state.Winner(); w != nil {
			w.Wins++
			r.winsCredited = true
		}
	}
	log.Info().Str("module", "core.room").Str("room", r.state.ID).Msg("game finished")
}

// voidMatchLocked aborts a running match without a winner.
func (r *roomImpl) voidMatchLocked() {
	r.matchSeq++
	r.winsCredited = true // nobody gets credit for a voided match
	r.resetMatchLocked()
	log.Info().Str("module", "core.room").Str("room", r.state.ID).Msg("match voided")
}

func (r *roomImpl) resetMatchLocked() {
	r.stopTimerLocked()
	r.state.Status = domain.StatusWaiting
	r.state.StartedAt = 0
	for _, p := range r.state.Players {
		p.Score = 0
		p.Finished = false
		p.Ready = p.UID == r.state.HostUID
	}
}

func (r *roomImpl) armTimerLocked(d time.Duration) {
	r.stopTimerLocked()
	seq := r.matchSeq
	r.timer = time.AfterFunc(d, func() { r.expireMatch(seq) })
}

func (r *roomImpl) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// expireMatch is the single server-owned countdown for timed modes:
// when the configured duration elapses the match finishes for everyone
// still playing.
func (r *roomImpl) expireMatch(seq uint64) {
	_ = r.mutate(func() error {
		if r.state.Status != domain.StatusPlaying || r.matchSeq != seq {
			return errStale
		}
		for _, p := range r.state.ActivePlayers() {
			p.Finished = true
		}
		r.finishMatchLocked()
		return nil
	})
}
