package repository

import (
	"errors"

	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/ikkim/wishwall-backend/internal/app/model"
	apperrors "github.com/ikkim/wishwall-backend/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadySupported is returned when the (wish, identity) support row
	// already exists. Under concurrent duplicate requests the unique index
	// raises this for the loser; callers treat it as "already supported".
	ErrAlreadySupported = errors.New("wish already supported by this identity")

	// ErrSupportNotFound is returned when removing a support that does not exist.
	ErrSupportNotFound = errors.New("support not found")
)

// WishRepository is the persistence port consumed by the wish use cases.
type WishRepository interface {
	Save(wish *model.Wish) error
	FindByID(id string) (*model.Wish, error)
	FindByUserID(userID uint) (*model.Wish, error)
	FindBySessionID(sessionID string) (*model.Wish, error)
	FindLatest(limit, offset int) ([]model.Wish, error)
	FindLatestWithSupportStatus(limit, offset int, viewer *domain.Identity) ([]model.Wish, error)
	CountAll() (int64, error)

	AddSupport(wishID string, supporter domain.Identity) error
	RemoveSupport(wishID string, supporter domain.Identity) error
	HasSupported(wishID string, supporter domain.Identity) (bool, error)
}

type wishRepository struct {
	db *gorm.DB
}

func NewWishRepository(db *gorm.DB) WishRepository {
	return &wishRepository{db: db}
}

// Save upserts the wish row by primary key.
func (r *wishRepository) Save(wish *model.Wish) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "name", "updated_at",
		}),
	}).Create(wish).Error
}

func (r *wishRepository) FindByID(id string) (*model.Wish, error) {
	var wish model.Wish
	if err := r.db.Where("id = ?", id).First(&wish).Error; err != nil {
		return nil, err
	}
	return &wish, nil
}

func (r *wishRepository) FindByUserID(userID uint) (*model.Wish, error) {
	var wish model.Wish
	if err := r.db.Where("user_id = ?", userID).First(&wish).Error; err != nil {
		return nil, err
	}
	return &wish, nil
}

func (r *wishRepository) FindBySessionID(sessionID string) (*model.Wish, error) {
	var wish model.Wish
	if err := r.db.Where("session_id = ?", sessionID).First(&wish).Error; err != nil {
		return nil, err
	}
	return &wish, nil
}

// FindLatest returns wishes newest first, ties broken by id for a stable
// page order.
func (r *wishRepository) FindLatest(limit, offset int) ([]model.Wish, error) {
	var wishes []model.Wish
	err := r.db.
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&wishes).Error
	if err != nil {
		return nil, err
	}
	return wishes, nil
}

// FindLatestWithSupportStatus additionally marks each wish with whether the
// viewer has supported it.
func (r *wishRepository) FindLatestWithSupportStatus(limit, offset int, viewer *domain.Identity) ([]model.Wish, error) {
	wishes, err := r.FindLatest(limit, offset)
	if err != nil {
		return nil, err
	}
	if viewer == nil || len(wishes) == 0 {
		return wishes, nil
	}

	ids := make([]string, len(wishes))
	for i := range wishes {
		ids[i] = wishes[i].ID
	}

	var supported []string
	err = r.db.Model(&model.WishSupport{}).
		Where("wish_id IN ? AND supporter_key = ?", ids, viewer.Key()).
		Pluck("wish_id", &supported).Error
	if err != nil {
		return nil, err
	}

	supportedSet := make(map[string]bool, len(supported))
	for _, id := range supported {
		supportedSet[id] = true
	}
	for i := range wishes {
		wishes[i].Supported = supportedSet[wishes[i].ID]
	}
	return wishes, nil
}

func (r *wishRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Wish{}).Count(&count).Error
	return count, err
}

// AddSupport inserts the support row and bumps the cached count in one
// transaction. The unique index on (wish_id, supporter_key) is the backstop
// against concurrent duplicates; its violation maps to ErrAlreadySupported.
func (r *wishRepository) AddSupport(wishID string, supporter domain.Identity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		support := &model.WishSupport{
			WishID:       wishID,
			SupporterKey: supporter.Key(),
		}
		if userID, ok := supporter.UserID(); ok {
			v := userID.Value()
			support.SupporterUserID = &v
		}
		if sessionID, ok := supporter.SessionID(); ok {
			v := sessionID.String()
			support.SupporterSessionID = &v
		}

		if err := tx.Create(support).Error; err != nil {
			if apperrors.IsDuplicateKey(err) {
				return ErrAlreadySupported
			}
			return err
		}

		if err := tx.Model(&model.Wish{}).
			Where("id = ?", wishID).
			UpdateColumn("support_count", gorm.Expr("support_count + ?", 1)).
			Error; err != nil {
			return err
		}

		return nil
	})
}

// RemoveSupport deletes the support row and decrements the count. Removing
// an absent support returns ErrSupportNotFound and leaves the count alone.
func (r *wishRepository) RemoveSupport(wishID string, supporter domain.Identity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("wish_id = ? AND supporter_key = ?", wishID, supporter.Key()).
			Delete(&model.WishSupport{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSupportNotFound
		}

		if err := tx.Model(&model.Wish{}).
			Where("id = ? AND support_count > 0", wishID).
			UpdateColumn("support_count", gorm.Expr("support_count - ?", 1)).
			Error; err != nil {
			return err
		}

		return nil
	})
}

func (r *wishRepository) HasSupported(wishID string, supporter domain.Identity) (bool, error) {
	var count int64
	err := r.db.Model(&model.WishSupport{}).
		Where("wish_id = ? AND supporter_key = ?", wishID, supporter.Key()).
		Count(&count).Error
	return count > 0, err
}
