package models

import (
	"strings"

	"gorm.io/gorm"

	"playgrid/backend/internal/game"
)

const emptyCell = '-'

// EmptyCells is the cell encoding of a fresh board.
var EmptyCells = strings.Repeat(string(emptyCell), game.BoardSize)

// Board holds the grid for one playing episode of a room. It is created on
// game start and deleted when the room resets to waiting.
type Board struct {
	gorm.Model
	RoomID uint   `gorm:"uniqueIndex;not null"` // one board per room
	Cells  string `gorm:"size:9;not null"`      // 9 bytes, '-' for empty

	Moves []Move `gorm:"foreignKey:BoardID"`
}

// Cell returns the sign at the given index.
func (b *Board) Cell(index int) game.Sign {
	if b.Cells[index] == emptyCell {
		return game.SignNone
	}
	return game.Sign(b.Cells[index : index+1])
}

// SetCell writes a sign into the given index.
func (b *Board) SetCell(index int, sign game.Sign) {
	cells := []byte(b.Cells)
	cells[index] = sign[0]
	b.Cells = string(cells)
}

// Grid decodes the cell string into the engine's representation.
func (b *Board) Grid() [game.BoardSize]game.Sign {
	var grid [game.BoardSize]game.Sign
	for i := range grid {
		grid[i] = b.Cell(i)
	}
	return grid
}

// Move is one recorded move on a board, ordered by insertion.
type Move struct {
	gorm.Model
	BoardID   uint      `gorm:"index;not null"`
	Sign      game.Sign `gorm:"size:1;not null"`
	CellIndex int       `gorm:"not null"`
}
