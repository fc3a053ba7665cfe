package store

import (
	"context"
	"errors"
	"math/rand"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"playgrid/backend/internal/game"
	"playgrid/backend/internal/models"
	"playgrid/backend/internal/room"
)

const (
	codeLength      = 6
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeRetries  = 10
	maxPlayersCount = 2
)

// Rooms is the room registry backed by postgres. The rooms.code unique
// constraint is the source of truth for code collisions.
type Rooms struct {
	db  *gorm.DB
	gen func() string
}

// NewRooms builds the registry over an owned database handle.
func NewRooms(db *gorm.DB) *Rooms {
	return &Rooms{db: db, gen: generateCode}
}

func generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}

// createWithRetry inserts a freshly generated code, retrying on uniqueness
// collisions up to maxCodeRetries before giving up.
func createWithRetry(gen func() string, insert func(code string) error) (string, error) {
	for i := 0; i < maxCodeRetries; i++ {
		code := gen()
		err := insert(code)
		if err == nil {
			return code, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return "", err
	}
	return "", room.ErrExhaustedRetries
}

// Create generates a unique room code and persists a fresh waiting room.
func (s *Rooms) Create(ctx context.Context, ownerID uint) (*models.Room, error) {
	var created *models.Room
	_, err := createWithRetry(s.gen, func(code string) error {
		rm := &models.Room{
			Code:        code,
			MaxPlayers:  maxPlayersCount,
			CreatedByID: ownerID,
			Status:      models.StatusWaiting,
		}
		if err := s.db.WithContext(ctx).Create(rm).Error; err != nil {
			return err
		}
		created = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FindByCode loads a room with its players (and their users) in join order.
func (s *Rooms) FindByCode(ctx context.Context, code string) (*models.Room, error) {
	var rm models.Room
	err := s.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Players.User").
		Where("code = ?", code).
		First(&rm).Error
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// StatusByCode returns just the lifecycle status of a room.
func (s *Rooms) StatusByCode(ctx context.Context, code string) (models.RoomStatus, error) {
	var rm models.Room
	err := s.db.WithContext(ctx).Select("status").Where("code = ?", code).First(&rm).Error
	if err != nil {
		return "", err
	}
	return rm.Status, nil
}

// FindActiveForUser returns the waiting or playing room containing the user
// as a player, or nil if there is none. The state machine guarantees at most
// one such room exists.
func (s *Rooms) FindActiveForUser(ctx context.Context, userID uint) (*models.Room, error) {
	var rm models.Room
	err := s.db.WithContext(ctx).
		Joins("JOIN room_players ON room_players.room_id = rooms.id").
		Where("room_players.user_id = ? AND rooms.status IN ?", userID,
			[]models.RoomStatus{models.StatusWaiting, models.StatusPlaying}).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Players.User").
		First(&rm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// AddPlayer seats a user in the room with the given sign and mirrors the
// change on the in-memory room.
func (s *Rooms) AddPlayer(ctx context.Context, rm *models.Room, user *models.User, sign game.Sign) error {
	seat := models.RoomPlayer{
		RoomID:   rm.ID,
		UserID:   user.ID,
		Sign:     sign,
		Position: len(rm.Players),
		User:     *user,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&seat).Error; err != nil {
		return err
	}
	rm.Players = append(rm.Players, seat)
	return nil
}

// RemovePlayer frees the user's seat in the room.
func (s *Rooms) RemovePlayer(ctx context.Context, roomID, userID uint) error {
	return s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.RoomPlayer{}).Error
}

// Save persists the room record itself; seat rows are managed through
// AddPlayer and RemovePlayer.
func (s *Rooms) Save(ctx context.Context, rm *models.Room) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(rm).Error
}
