package room

import (
	"playgrid/backend/internal/game"
	"playgrid/backend/internal/models"
)

// Event is one named outbound message. The gateway delivers actor-directed
// events on the originating connection; room-scoped events fan out through
// the Notifier.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Outbound event names.
const (
	EventJoinSuccess    = "joinSuccess"
	EventOpponentJoined = "opponentJoined"
	EventOpponentLeft   = "opponentLeft"
	EventLeaveSuccess   = "leaveSuccess"
	EventGameStarted    = "gameStarted"
	EventGameUpdate     = "gameUpdate"
	EventRoomError      = "roomError"
)

// Notifier fans an event out to a room's broadcast group. Implemented by the
// hub; the machine calls it while holding the room lock so per-room emission
// order is preserved.
type Notifier interface {
	Broadcast(code string, event Event)
	BroadcastExcept(code string, userID uint, event Event)
}

// PlayerView is a player's identity plus assigned sign.
type PlayerView struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Sign     game.Sign `json:"sign"`
}

// RoomView is the full room state sent with gameStarted and gameUpdate.
type RoomView struct {
	Code        string            `json:"code"`
	MaxPlayers  int               `json:"maxPlayersCount"`
	Players     []PlayerView      `json:"players"`
	CreatedBy   uint              `json:"createdBy"`
	Status      models.RoomStatus `json:"status"`
	CurrentTurn *uint             `json:"currentTurn"`
	Winner      *uint             `json:"winner"`
}

// MoveView is one entry of a board's move history.
type MoveView struct {
	Sign  game.Sign `json:"sign"`
	Index int       `json:"index"`
}

// BoardView is the full board state sent with gameStarted and gameUpdate.
type BoardView struct {
	Cells       [game.BoardSize]game.Sign `json:"cells"`
	MoveHistory []MoveView                `json:"moveHistory"`
}

// JoinPayload is the joinSuccess payload.
type JoinPayload struct {
	Me       PlayerView  `json:"me"`
	Opponent *PlayerView `json:"opponent"`
	IsAdmin  bool        `json:"isAdmin"`
}

// OpponentPayload announces the newly seated player to the rest of the room.
type OpponentPayload struct {
	Opponent PlayerView `json:"opponent"`
}

// GamePayload carries the full room and board state.
type GamePayload struct {
	Room  RoomView  `json:"room"`
	Board BoardView `json:"board"`
}

// MessagePayload is a plain human-readable notice.
type MessagePayload struct {
	Message string `json:"message"`
}

func newPlayerView(p *models.RoomPlayer) PlayerView {
	return PlayerView{
		ID:       p.UserID,
		Name:     p.User.Name,
		Username: p.User.Username,
		Sign:     p.Sign,
	}
}

func newRoomView(r *models.Room) RoomView {
	players := make([]PlayerView, 0, len(r.Players))
	for i := range r.Players {
		players = append(players, newPlayerView(&r.Players[i]))
	}
	return RoomView{
		Code:        r.Code,
		MaxPlayers:  r.MaxPlayers,
		Players:     players,
		CreatedBy:   r.CreatedByID,
		Status:      r.Status,
		CurrentTurn: r.CurrentTurnID,
		Winner:      r.WinnerID,
	}
}

func newBoardView(b *models.Board) BoardView {
	moves := make([]MoveView, 0, len(b.Moves))
	for _, m := range b.Moves {
		moves = append(moves, MoveView{Sign: m.Sign, Index: m.CellIndex})
	}
	return BoardView{Cells: b.Grid(), MoveHistory: moves}
}

func newGamePayload(r *models.Room, b *models.Board) GamePayload {
	return GamePayload{Room: newRoomView(r), Board: newBoardView(b)}
}
