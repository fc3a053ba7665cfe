package store

import (
	"context"

	"gorm.io/gorm"

	"playgrid/backend/internal/game"
	"playgrid/backend/internal/models"
)

// Boards is the board store backed by postgres. A board's lifetime spans one
// playing episode of its room.
type Boards struct {
	db *gorm.DB
}

// NewBoards builds the board store over an owned database handle.
func NewBoards(db *gorm.DB) *Boards {
	return &Boards{db: db}
}

// Create persists a fresh board of 9 empty cells for the room.
func (s *Boards) Create(ctx context.Context, roomID uint) (*models.Board, error) {
	board := &models.Board{RoomID: roomID, Cells: models.EmptyCells}
	if err := s.db.WithContext(ctx).Create(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

// FindByRoom loads the room's board with its move history in order.
func (s *Boards) FindByRoom(ctx context.Context, roomID uint) (*models.Board, error) {
	var board models.Board
	err := s.db.WithContext(ctx).
		Preload("Moves", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("room_id = ?", roomID).
		First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// RecordMove writes the sign into the cell and appends to the move history.
// The caller must already have validated that the cell was empty.
func (s *Boards) RecordMove(ctx context.Context, board *models.Board, index int, sign game.Sign) error {
	board.SetCell(index, sign)
	if err := s.db.WithContext(ctx).Model(board).Update("cells", board.Cells).Error; err != nil {
		return err
	}

	move := models.Move{BoardID: board.ID, Sign: sign, CellIndex: index}
	if err := s.db.WithContext(ctx).Create(&move).Error; err != nil {
		return err
	}
	board.Moves = append(board.Moves, move)
	return nil
}

// Delete removes a board and its move history.
func (s *Boards) Delete(ctx context.Context, boardID uint) error {
	if err := s.db.WithContext(ctx).Unscoped().Where("board_id = ?", boardID).Delete(&models.Move{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Unscoped().Delete(&models.Board{}, boardID).Error
}
