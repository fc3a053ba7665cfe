package models

import (
	"gorm.io/gorm"

	"playgrid/backend/internal/game"
)

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	StatusWaiting   RoomStatus = "waiting"
	StatusPlaying   RoomStatus = "playing"
	StatusFinished  RoomStatus = "finished"
	StatusAbandoned RoomStatus = "abandoned"
)

// Room represents a game room joinable by a short code.
type Room struct {
	gorm.Model
	Code        string     `gorm:"size:6;unique;not null"`
	MaxPlayers  int        `gorm:"not null;default:2"`
	CreatedByID uint       `gorm:"not null"`
	Status      RoomStatus `gorm:"size:20;not null;default:'waiting'"`

	// All nil while the room is waiting. Status playing implies all set.
	BoardID       *uint
	CurrentTurnID *uint
	WinnerID      *uint

	CreatedBy User         `gorm:"foreignKey:CreatedByID"`
	Players   []RoomPlayer `gorm:"foreignKey:RoomID"`
}

// Player returns the membership entry for the given user, or nil.
func (r *Room) Player(userID uint) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return &r.Players[i]
		}
	}
	return nil
}

// Opponent returns the other player's membership entry, or nil.
func (r *Room) Opponent(userID uint) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].UserID != userID {
			return &r.Players[i]
		}
	}
	return nil
}

// PlayerBySign returns the membership entry holding the given sign, or nil.
func (r *Room) PlayerBySign(sign game.Sign) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].Sign == sign {
			return &r.Players[i]
		}
	}
	return nil
}

// RoomPlayer is a user's seat in a room. Position is join order; the seat
// joined first holds X.
type RoomPlayer struct {
	RoomID   uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID   uint      `gorm:"primaryKey;autoIncrement:false"`
	Sign     game.Sign `gorm:"size:1;not null"`
	Position int       `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`
}
