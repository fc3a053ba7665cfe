package room

import (
	"context"
	"strings"
	"sync"

	"playgrid/backend/internal/game"
	"playgrid/backend/internal/models"
)

// RoomStore is the slice of the room registry the machine needs. Lookups
// return rooms with players (and their users) preloaded in join order.
type RoomStore interface {
	FindByCode(ctx context.Context, code string) (*models.Room, error)
	FindActiveForUser(ctx context.Context, userID uint) (*models.Room, error)
	AddPlayer(ctx context.Context, room *models.Room, user *models.User, sign game.Sign) error
	RemovePlayer(ctx context.Context, roomID, userID uint) error
	Save(ctx context.Context, room *models.Room) error
}

// BoardStore is the board persistence surface used by the machine.
type BoardStore interface {
	Create(ctx context.Context, roomID uint) (*models.Board, error)
	FindByRoom(ctx context.Context, roomID uint) (*models.Board, error)
	RecordMove(ctx context.Context, board *models.Board, index int, sign game.Sign) error
	Delete(ctx context.Context, boardID uint) error
}

// Machine validates and applies every room-affecting event. All state reads
// and writes for a given room happen under that room's code lock, so two
// racing events on the same room are serialized and each one re-validates
// against fresh state before persisting.
type Machine struct {
	rooms  RoomStore
	boards BoardStore
	notify Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMachine wires the state machine to its stores and broadcast fan-out.
func NewMachine(rooms RoomStore, boards BoardStore, notify Notifier) *Machine {
	return &Machine{
		rooms:  rooms,
		boards: boards,
		notify: notify,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Canonical uppercases a room code for lookups and lock keys.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// lock acquires the per-room-code mutex, creating it on first use.
func (m *Machine) lock(code string) func() {
	m.mu.Lock()
	l, ok := m.locks[code]
	if !ok {
		l = &sync.Mutex{}
		m.locks[code] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Join handles a joinRoom event. Re-joining a room the user is already in is
// idempotent: it returns the current view again and, if a game is running,
// re-delivers the board snapshot so a dropped client can recover.
func (m *Machine) Join(ctx context.Context, user *models.User, code string) ([]Event, error) {
	code = Canonical(code)
	if code == "" {
		return nil, NewError(KindValidation, "Room ID is required")
	}
	unlock := m.lock(code)
	defer unlock()

	rm, err := m.rooms.FindByCode(ctx, code)
	if err != nil {
		return nil, ErrRoomNotFound
	}

	if seat := rm.Player(user.ID); seat != nil {
		me := newPlayerView(seat)
		var opponent *PlayerView
		if opp := rm.Opponent(user.ID); opp != nil {
			v := newPlayerView(opp)
			opponent = &v
		}

		replies := []Event{{
			Name: EventJoinSuccess,
			Data: JoinPayload{Me: me, Opponent: opponent, IsAdmin: rm.CreatedByID == user.ID},
		}}

		if rm.Status == models.StatusPlaying {
			board, err := m.boards.FindByRoom(ctx, rm.ID)
			if err != nil {
				return nil, ErrGameNotFound
			}
			replies = append(replies, Event{Name: EventGameStarted, Data: newGamePayload(rm, board)})
		}
		return replies, nil
	}

	if rm.Status != models.StatusWaiting {
		return nil, ErrNotJoinable(string(rm.Status))
	}
	if len(rm.Players) >= rm.MaxPlayers {
		return nil, ErrRoomFull
	}

	sign := game.SignX
	var opponent *PlayerView
	if len(rm.Players) > 0 {
		sign = rm.Players[0].Sign.Opponent()
		v := newPlayerView(&rm.Players[0])
		opponent = &v
	}

	if err := m.rooms.AddPlayer(ctx, rm, user, sign); err != nil {
		return nil, err
	}

	me := PlayerView{ID: user.ID, Name: user.Name, Username: user.Username, Sign: sign}
	m.notify.BroadcastExcept(code, user.ID, Event{
		Name: EventOpponentJoined,
		Data: OpponentPayload{Opponent: me},
	})

	return []Event{{
		Name: EventJoinSuccess,
		Data: JoinPayload{Me: me, Opponent: opponent, IsAdmin: rm.CreatedByID == user.ID},
	}}, nil
}

// Leave handles a leaveRoom event. Any leave resets the room to waiting and
// discards the board: a two-player game never continues with a replacement.
func (m *Machine) Leave(ctx context.Context, user *models.User, code string) ([]Event, error) {
	code = Canonical(code)
	unlock := m.lock(code)
	defer unlock()

	rm, err := m.rooms.FindByCode(ctx, code)
	if err != nil {
		return nil, ErrNoActiveRoom
	}

	if err := m.removeAndReset(ctx, rm, user); err != nil {
		return nil, err
	}

	return []Event{{
		Name: EventLeaveSuccess,
		Data: MessagePayload{Message: "Left room successfully"},
	}}, nil
}

// Disconnect handles a dropped connection. It is an implicit leave: there is
// no grace period, membership is forfeited immediately. A user with no
// active room is a no-op.
func (m *Machine) Disconnect(ctx context.Context, user *models.User) error {
	active, err := m.rooms.FindActiveForUser(ctx, user.ID)
	if err != nil || active == nil {
		return nil
	}

	code := Canonical(active.Code)
	unlock := m.lock(code)
	defer unlock()

	// Re-read under the lock; the room may have been reset meanwhile.
	rm, err := m.rooms.FindByCode(ctx, code)
	if err != nil {
		return nil
	}
	if err := m.removeAndReset(ctx, rm, user); err != nil {
		return nil // already cleaned up, benign
	}
	return nil
}

// removeAndReset applies the shared leave/disconnect cleanup: drop the
// player, reset the room to waiting, delete the board, notify the remaining
// member. Caller holds the room lock.
func (m *Machine) removeAndReset(ctx context.Context, rm *models.Room, user *models.User) error {
	if rm.Status != models.StatusWaiting && rm.Status != models.StatusPlaying {
		return ErrNoActiveRoom
	}
	seat := rm.Player(user.ID)
	if seat == nil {
		return ErrNoActiveRoom
	}
	left := newPlayerView(seat)

	if err := m.rooms.RemovePlayer(ctx, rm.ID, user.ID); err != nil {
		return err
	}
	for i := range rm.Players {
		if rm.Players[i].UserID == user.ID {
			rm.Players = append(rm.Players[:i], rm.Players[i+1:]...)
			break
		}
	}

	rm.Status = models.StatusWaiting
	rm.CurrentTurnID = nil
	rm.WinnerID = nil
	if rm.BoardID != nil {
		if err := m.boards.Delete(ctx, *rm.BoardID); err != nil {
			return err
		}
		rm.BoardID = nil
	}
	if err := m.rooms.Save(ctx, rm); err != nil {
		return err
	}

	m.notify.BroadcastExcept(rm.Code, user.ID, Event{Name: EventOpponentLeft, Data: left})
	return nil
}

// Start handles a startGame event. Only the room creator may start, both
// seats must be filled, and the room must still be waiting. The X seat moves
// first.
func (m *Machine) Start(ctx context.Context, user *models.User, code string) ([]Event, error) {
	code = Canonical(code)
	unlock := m.lock(code)
	defer unlock()

	rm, err := m.rooms.FindByCode(ctx, code)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	if rm.CreatedByID != user.ID {
		return nil, ErrNotCreator
	}
	if len(rm.Players) != rm.MaxPlayers {
		return nil, ErrNotEnoughPlayers
	}
	if rm.Status != models.StatusWaiting {
		return nil, ErrAlreadyStarted
	}

	board, err := m.boards.Create(ctx, rm.ID)
	if err != nil {
		return nil, err
	}

	first := rm.PlayerBySign(game.SignX)
	rm.Status = models.StatusPlaying
	rm.BoardID = &board.ID
	rm.CurrentTurnID = &first.UserID
	if err := m.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	m.notify.Broadcast(code, Event{Name: EventGameStarted, Data: newGamePayload(rm, board)})
	return nil, nil
}

// Move handles a makeMove event: record the mover's sign at the index, let
// the engine judge the board, then either finish the game or flip the turn.
func (m *Machine) Move(ctx context.Context, user *models.User, code string, index int) ([]Event, error) {
	if index < 0 || index >= game.BoardSize {
		return nil, NewError(KindValidation, "Cell index must be between 0 and 8")
	}

	code = Canonical(code)
	unlock := m.lock(code)
	defer unlock()

	rm, err := m.rooms.FindByCode(ctx, code)
	if err != nil {
		return nil, ErrGameNotFound
	}
	board, err := m.boards.FindByRoom(ctx, rm.ID)
	if err != nil {
		return nil, ErrGameNotFound
	}
	if rm.Status != models.StatusPlaying {
		return nil, ErrGameNotActive
	}
	if rm.CurrentTurnID == nil || *rm.CurrentTurnID != user.ID {
		return nil, ErrNotYourTurn
	}
	if board.Cell(index) != game.SignNone {
		return nil, ErrCellTaken
	}

	mover := rm.Player(user.ID)
	if mover == nil {
		return nil, ErrNotYourTurn
	}

	if err := m.boards.RecordMove(ctx, board, index, mover.Sign); err != nil {
		return nil, err
	}

	result := game.Evaluate(board.Grid())
	switch {
	case result.Winner != game.SignNone:
		rm.Status = models.StatusFinished
		winnerID := user.ID
		rm.WinnerID = &winnerID
		rm.CurrentTurnID = nil
	case result.Draw:
		rm.Status = models.StatusFinished
		rm.WinnerID = nil
		rm.CurrentTurnID = nil
	default:
		opponent := rm.Opponent(user.ID)
		rm.CurrentTurnID = &opponent.UserID
	}

	if err := m.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	// Clients read status and winner from this payload; there is no
	// separate game-over event.
	m.notify.Broadcast(code, Event{Name: EventGameUpdate, Data: newGamePayload(rm, board)})
	return nil, nil
}
