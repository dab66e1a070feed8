package repository

import (
	"time"

	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/ikkim/wishwall-backend/internal/app/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	// Mint creates and persists a fresh anonymous session.
	Mint() (*model.Session, error)
	Exists(id string) (bool, error)
	// Touch bumps last_seen_at; unknown sessions are ignored.
	Touch(id string) error
	// DeleteIdleBefore purges sessions idle since before the cutoff that own
	// no wish and no support. Returns the number of rows removed.
	DeleteIdleBefore(cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Mint() (*model.Session, error) {
	session := &model.Session{
		ID:         domain.GenerateSessionID().String(),
		LastSeenAt: time.Now(),
	}
	if err := r.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Session{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *sessionRepository) Touch(id string) error {
	return r.db.Model(&model.Session{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", time.Now()).
		Error
}

func (r *sessionRepository) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("last_seen_at < ?", cutoff).
		Where("id NOT IN (?)", r.db.Model(&model.Wish{}).Select("session_id").Where("session_id IS NOT NULL")).
		Where("id NOT IN (?)", r.db.Model(&model.WishSupport{}).Select("supporter_session_id").Where("supporter_session_id IS NOT NULL")).
		Delete(&model.Session{})
	return result.RowsAffected, result.Error
}
