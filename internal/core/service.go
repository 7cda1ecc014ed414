package core

import "github.com/radixplay/rooms/internal/domain"

// Event is one delivery on a room subscription. Exactly one of the
// three shapes is meant: a snapshot (Room set), a kicked signal
// (Kicked true, sent once to the kicked player), or a room-closed
// notice (both zero).
type Event struct {
	Room   *domain.Room
	Kicked bool
}

type CancelFunc func()

// Hooks let the owner react to committed changes without the room
// knowing about persistence or eviction. Both are called outside the
// room lock and may be nil.
type Hooks struct {
	OnChange func(*domain.Room)
	OnClose  func(roomID string)
}

// RoomService is the authoritative state machine for one room. Every
// mutation is validated before any state changes; a returned error
// means nothing was written and no subscriber was notified.
type RoomService interface {
	Snapshot() *domain.Room
	Closed() bool

	Join(uid, displayName string) error
	Leave(uid string) error
	SetReady(uid string, ready bool) error
	StartGame(callerUID string) error
	UpdateScore(uid string, score int) error
	FinishGame(uid string) error
	Reset(callerUID string) error
	IncrementWins(winnerUID string) error
	UpdateGameMode(callerUID string, mode domain.GameMode) error
	KickPlayer(callerUID, targetUID string) error
	TransferHost(callerUID, newHostUID string) error
	UpdateSettings(callerUID string, patch domain.SettingsPatch) error

	// Subscribe delivers the current snapshot immediately, then one
	// event per committed change. Cancel is idempotent.
	Subscribe(uid string) (<-chan Event, CancelFunc)

	// Heal re-runs the self-healing pass (orphaned host election,
	// empty-room close) on demand.
	Heal()
}
