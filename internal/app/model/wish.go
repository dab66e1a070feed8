package model

import (
	"time"

	"github.com/ikkim/wishwall-backend/internal/app/domain"
)

// Wish persistence model. One row per wish; at most one wish per user and
// per anonymous session (unique indexes on both owner columns, NULLs
// exempt).
type Wish struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Content string  `gorm:"type:varchar(500);not null" json:"wish"`
	Name    *string `gorm:"type:varchar(100)" json:"name,omitempty"`

	// Author identity: exactly one of the two is set.
	UserID    *uint   `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionID *string `gorm:"type:varchar(36);uniqueIndex" json:"-"`

	SupportCount int `gorm:"not null;default:0" json:"support_count"`

	// Whether the current viewer has supported this wish. Populated per
	// request, never stored.
	Supported bool `gorm:"-" json:"is_supported"`

	User     *User         `gorm:"foreignKey:UserID" json:"-"`
	Supports []WishSupport `gorm:"foreignKey:WishID" json:"-"`
}

func (Wish) TableName() string {
	return "wishes"
}

// DisplayName renders "anonymous" for unnamed wishes.
func (w *Wish) DisplayName() string {
	if w.Name == nil || *w.Name == "" {
		return "anonymous"
	}
	return *w.Name
}

// AuthorIdentity rebuilds the domain identity owning this wish.
func (w *Wish) AuthorIdentity() (domain.Identity, error) {
	return domain.ResolveIdentity(w.UserID, w.SessionID)
}

// ToDomain converts the row (plus any preloaded supports) into the domain
// aggregate.
func (w *Wish) ToDomain() (domain.Wish, error) {
	author, err := w.AuthorIdentity()
	if err != nil {
		return domain.Wish{}, err
	}
	content, err := domain.NewWishContent(w.Content)
	if err != nil {
		return domain.Wish{}, err
	}
	count, err := domain.NewSupportCount(w.SupportCount)
	if err != nil {
		return domain.Wish{}, err
	}
	supporters := make([]domain.Identity, 0, len(w.Supports))
	for i := range w.Supports {
		identity, err := w.Supports[i].SupporterIdentity()
		if err != nil {
			return domain.Wish{}, err
		}
		supporters = append(supporters, identity)
	}
	id, err := domain.NewWishID(w.ID)
	if err != nil {
		return domain.Wish{}, err
	}
	return domain.RestoreWish(id, content, w.Name, author, count, supporters, w.CreatedAt), nil
}

// WishFromDomain maps a domain aggregate onto a persistence row.
func WishFromDomain(wish domain.Wish) *Wish {
	row := &Wish{
		ID:           wish.ID().String(),
		Content:      wish.Content().String(),
		Name:         wish.Name(),
		SupportCount: wish.SupportCount().Value(),
		CreatedAt:    wish.CreatedAt(),
	}
	if userID, ok := wish.Author().UserID(); ok {
		v := userID.Value()
		row.UserID = &v
	}
	if sessionID, ok := wish.Author().SessionID(); ok {
		v := sessionID.String()
		row.SessionID = &v
	}
	return row
}

// WishSupport records one identity supporting one wish. The composite
// unique index is the correctness backstop for concurrent duplicate
// support requests.
type WishSupport struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	WishID       string `gorm:"type:varchar(36);not null;index:idx_wish_supporter,unique" json:"wish_id"`
	SupporterKey string `gorm:"type:varchar(64);not null;index:idx_wish_supporter,unique" json:"-"`

	// Denormalized identity columns for lookups and session cleanup.
	SupporterUserID    *uint   `gorm:"index" json:"-"`
	SupporterSessionID *string `gorm:"type:varchar(36);index" json:"-"`

	Wish Wish `gorm:"foreignKey:WishID" json:"-"`
}

func (WishSupport) TableName() string {
	return "wish_supports"
}

// SupporterIdentity rebuilds the domain identity that made this support.
func (s *WishSupport) SupporterIdentity() (domain.Identity, error) {
	return domain.ResolveIdentity(s.SupporterUserID, s.SupporterSessionID)
}

// CreateWishRequest is the POST /wishes body.
type CreateWishRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Wish string  `json:"wish" binding:"required"`
}

// UpdateWishRequest is the PUT /wishes body.
type UpdateWishRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Wish string  `json:"wish" binding:"required"`
}

// WishResponse is the API shape of a wish.
type WishResponse struct {
	ID           string    `json:"id"`
	Wish         string    `json:"wish"`
	Name         string    `json:"name"`
	SupportCount int       `json:"support_count"`
	IsSupported  bool      `json:"is_supported"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse shapes the row for API responses.
func (w *Wish) ToResponse() WishResponse {
	return WishResponse{
		ID:           w.ID,
		Wish:         w.Content,
		Name:         w.DisplayName(),
		SupportCount: w.SupportCount,
		IsSupported:  w.Supported,
		CreatedAt:    w.CreatedAt,
	}
}
