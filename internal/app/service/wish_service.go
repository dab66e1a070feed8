package service

import (
	"errors"

	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/ikkim/wishwall-backend/internal/app/model"
	"github.com/ikkim/wishwall-backend/internal/app/repository"
	apperrors "github.com/ikkim/wishwall-backend/internal/errors"
	"github.com/ikkim/wishwall-backend/internal/websocket"
	"github.com/ikkim/wishwall-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishNotFound      = errors.New("wish not found")
	ErrWishAlreadyPosted = errors.New("wish already posted by this identity")
	ErrSelfSupport       = errors.New("cannot support your own wish")
	ErrNoEditPermission  = errors.New("no identity to edit a wish with")
)

// SupportResult reports the outcome of a support/unsupport call. Success is
// false only when unsupport was a no-op (nothing to remove). SessionID
// carries the session minted for an anonymous supporter, empty otherwise.
type SupportResult struct {
	Success          bool
	AlreadySupported bool
	WasSupported     bool
	SessionID        string
	Wish             *model.Wish
}

type WishService interface {
	// CreateWish posts the identity's single wish. Anonymous callers with no
	// session get one minted; the returned string is the session ID the
	// caller should keep (empty for signed-in users).
	CreateWish(userID *uint, sessionID *string, name *string, content string) (*model.Wish, string, error)
	// UpdateWish edits the caller's wish in place, preserving its identity,
	// creation time and supports.
	UpdateWish(userID *uint, sessionID *string, name *string, content string) (*model.Wish, error)
	// GetUserWish returns the caller's wish, user identity first. A caller
	// without a wish gets (nil, nil).
	GetUserWish(userID *uint, sessionID *string) (*model.Wish, error)
	// GetCurrentWish backs GET /wishes/current; same resolution as GetUserWish.
	GetCurrentWish(userID *uint, sessionID *string) (*model.Wish, error)
	// GetLatestWishes returns a feed page (newest first) plus the total wish
	// count. Per-wish support status is filled in when a viewer is present.
	GetLatestWishes(limit, offset int, userID *uint, sessionID *string) ([]model.Wish, int64, error)
	SupportWish(wishID string, userID *uint, sessionID *string) (*SupportResult, error)
	UnsupportWish(wishID string, userID *uint, sessionID *string) (*SupportResult, error)
	// GetWishSupportStatus returns whether the caller supports the wish,
	// along with the wish itself.
	GetWishSupportStatus(wishID string, userID *uint, sessionID *string) (*model.Wish, bool, error)
}

type wishService struct {
	wishRepo    repository.WishRepository
	sessionRepo repository.SessionRepository
	hub         *websocket.Hub
}

// NewWishService wires the wish use cases. hub may be nil (no live feed).
func NewWishService(wishRepo repository.WishRepository, sessionRepo repository.SessionRepository, hub *websocket.Hub) WishService {
	return &wishService{
		wishRepo:    wishRepo,
		sessionRepo: sessionRepo,
		hub:         hub,
	}
}

func (s *wishService) CreateWish(userID *uint, sessionID *string, name *string, content string) (*model.Wish, string, error) {
	identity, mintedSessionID, err := s.resolveOrMint(userID, sessionID)
	if err != nil {
		return nil, "", err
	}

	existing, err := s.findByIdentity(userID, sessionID)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		logger.Warn("Wish already posted", map[string]interface{}{
			"identity": identity.Key(),
			"wish_id":  existing.ID,
		})
		return nil, "", ErrWishAlreadyPosted
	}

	wish, err := domain.NewWish(content, name, identity)
	if err != nil {
		return nil, "", err
	}

	row := model.WishFromDomain(wish)
	if err := s.wishRepo.Save(row); err != nil {
		if apperrors.IsDuplicateKey(err) {
			// Lost a race against a concurrent post from the same identity
			return nil, "", ErrWishAlreadyPosted
		}
		logger.Error("Failed to save wish", err, map[string]interface{}{
			"identity": identity.Key(),
		})
		return nil, "", err
	}

	logger.Info("Wish created", map[string]interface{}{
		"wish_id":  row.ID,
		"identity": identity.Key(),
	})

	s.publish(websocket.FeedEvent{
		Type:   websocket.EventWishCreated,
		WishID: row.ID,
		Wish:   row.ToResponse(),
	})

	return row, mintedSessionID, nil
}

func (s *wishService) UpdateWish(userID *uint, sessionID *string, name *string, content string) (*model.Wish, error) {
	if userID == nil && sessionID == nil {
		// No identity at all: refuse before touching storage
		return nil, ErrNoEditPermission
	}

	row, err := s.findByIdentity(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrWishNotFound
	}

	aggregate, err := row.ToDomain()
	if err != nil {
		logger.Error("Failed to restore wish aggregate", err, map[string]interface{}{
			"wish_id": row.ID,
		})
		return nil, err
	}

	updated, err := aggregate.Update(name, content)
	if err != nil {
		return nil, err
	}

	row.Content = updated.Content().String()
	row.Name = updated.Name()
	if err := s.wishRepo.Save(row); err != nil {
		logger.Error("Failed to update wish", err, map[string]interface{}{
			"wish_id": row.ID,
		})
		return nil, err
	}

	logger.Info("Wish updated", map[string]interface{}{
		"wish_id": row.ID,
	})

	s.publish(websocket.FeedEvent{
		Type:   websocket.EventWishUpdated,
		WishID: row.ID,
		Wish:   row.ToResponse(),
	})

	return row, nil
}

func (s *wishService) GetUserWish(userID *uint, sessionID *string) (*model.Wish, error) {
	return s.findByIdentity(userID, sessionID)
}

// GetCurrentWish resolves like everything else: user identity first, then
// the session, falling back when the preferred identity owns no wish.
func (s *wishService) GetCurrentWish(userID *uint, sessionID *string) (*model.Wish, error) {
	return s.findByIdentity(userID, sessionID)
}

func (s *wishService) GetLatestWishes(limit, offset int, userID *uint, sessionID *string) ([]model.Wish, int64, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var viewer *domain.Identity
	if identity, err := domain.ResolveIdentity(userID, sessionID); err == nil {
		viewer = &identity
	}

	var (
		wishes []model.Wish
		err    error
	)
	if viewer != nil {
		wishes, err = s.wishRepo.FindLatestWithSupportStatus(limit, offset, viewer)
	} else {
		wishes, err = s.wishRepo.FindLatest(limit, offset)
	}
	if err != nil {
		logger.Error("Failed to fetch wish feed", err, map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		})
		return nil, 0, err
	}

	count, err := s.wishRepo.CountAll()
	if err != nil {
		return nil, 0, err
	}
	return wishes, count, nil
}

func (s *wishService) SupportWish(wishID string, userID *uint, sessionID *string) (*SupportResult, error) {
	row, err := s.findWish(wishID)
	if err != nil {
		return nil, err
	}

	identity, mintedSessionID, err := s.resolveOrMint(userID, sessionID)
	if err != nil {
		return nil, err
	}

	aggregate, err := row.ToDomain()
	if err != nil {
		return nil, err
	}
	if check := aggregate.CanSupport(identity); !check.IsValid {
		logger.Warn("Self-support rejected", map[string]interface{}{
			"wish_id":  wishID,
			"identity": identity.Key(),
		})
		return nil, ErrSelfSupport
	}

	supported, err := s.wishRepo.HasSupported(wishID, identity)
	if err != nil {
		return nil, err
	}
	if supported {
		return &SupportResult{
			Success:          true,
			AlreadySupported: true,
			SessionID:        mintedSessionID,
			Wish:             row,
		}, nil
	}

	if err := s.wishRepo.AddSupport(wishID, identity); err != nil {
		if errors.Is(err, repository.ErrAlreadySupported) {
			// Concurrent duplicate: the constraint fired, treat as a repeat
			return &SupportResult{
				Success:          true,
				AlreadySupported: true,
				SessionID:        mintedSessionID,
				Wish:             row,
			}, nil
		}
		logger.Error("Failed to add support", err, map[string]interface{}{
			"wish_id":  wishID,
			"identity": identity.Key(),
		})
		return nil, err
	}

	row, err = s.findWish(wishID)
	if err != nil {
		return nil, err
	}

	logger.Info("Wish supported", map[string]interface{}{
		"wish_id":       wishID,
		"identity":      identity.Key(),
		"support_count": row.SupportCount,
	})

	s.publish(websocket.FeedEvent{
		Type:         websocket.EventSupportChanged,
		WishID:       wishID,
		SupportCount: row.SupportCount,
	})

	return &SupportResult{
		Success:   true,
		SessionID: mintedSessionID,
		Wish:      row,
	}, nil
}

func (s *wishService) UnsupportWish(wishID string, userID *uint, sessionID *string) (*SupportResult, error) {
	row, err := s.findWish(wishID)
	if err != nil {
		return nil, err
	}

	identity, err := domain.ResolveIdentity(userID, sessionID)
	if err != nil {
		// Nobody to have supported with: nothing to remove
		return &SupportResult{Wish: row}, nil
	}

	if err := s.wishRepo.RemoveSupport(wishID, identity); err != nil {
		if errors.Is(err, repository.ErrSupportNotFound) {
			return &SupportResult{Wish: row}, nil
		}
		logger.Error("Failed to remove support", err, map[string]interface{}{
			"wish_id":  wishID,
			"identity": identity.Key(),
		})
		return nil, err
	}

	row, err = s.findWish(wishID)
	if err != nil {
		return nil, err
	}

	logger.Info("Wish support removed", map[string]interface{}{
		"wish_id":       wishID,
		"identity":      identity.Key(),
		"support_count": row.SupportCount,
	})

	s.publish(websocket.FeedEvent{
		Type:         websocket.EventSupportChanged,
		WishID:       wishID,
		SupportCount: row.SupportCount,
	})

	return &SupportResult{
		Success:      true,
		WasSupported: true,
		Wish:         row,
	}, nil
}

func (s *wishService) GetWishSupportStatus(wishID string, userID *uint, sessionID *string) (*model.Wish, bool, error) {
	row, err := s.findWish(wishID)
	if err != nil {
		return nil, false, err
	}

	identity, err := domain.ResolveIdentity(userID, sessionID)
	if err != nil {
		return row, false, nil
	}

	supported, err := s.wishRepo.HasSupported(wishID, identity)
	if err != nil {
		return nil, false, err
	}
	row.Supported = supported
	return row, supported, nil
}

// resolveOrMint resolves the caller's identity, minting and persisting a
// fresh anonymous session when none is present. The second return value is
// the session ID anonymous callers should keep.
func (s *wishService) resolveOrMint(userID *uint, sessionID *string) (domain.Identity, string, error) {
	identity, err := domain.ResolveIdentity(userID, sessionID)
	if err == nil {
		minted := ""
		if sid, ok := identity.SessionID(); ok {
			minted = sid.String()
		}
		return identity, minted, nil
	}
	if !errors.Is(err, domain.ErrNoIdentity) {
		return domain.Identity{}, "", err
	}

	session, err := s.sessionRepo.Mint()
	if err != nil {
		logger.Error("Failed to mint session", err, nil)
		return domain.Identity{}, "", err
	}

	logger.Debug("Anonymous session minted", map[string]interface{}{
		"session_id": session.ID,
	})

	sid, err := domain.NewSessionID(session.ID)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return domain.SessionIdentity(sid), session.ID, nil
}

// findByIdentity looks the caller's wish up, user identity first. Absence is
// (nil, nil), not an error.
func (s *wishService) findByIdentity(userID *uint, sessionID *string) (*model.Wish, error) {
	if userID != nil {
		row, err := s.lookupByUser(*userID)
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
	}
	if sessionID != nil {
		return s.lookupBySession(*sessionID)
	}
	return nil, nil
}

func (s *wishService) lookupByUser(userID uint) (*model.Wish, error) {
	row, err := s.wishRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func (s *wishService) lookupBySession(sessionID string) (*model.Wish, error) {
	row, err := s.wishRepo.FindBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func (s *wishService) findWish(wishID string) (*model.Wish, error) {
	row, err := s.wishRepo.FindByID(wishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWishNotFound
		}
		return nil, err
	}
	return row, nil
}

func (s *wishService) publish(event websocket.FeedEvent) {
	if s.hub != nil {
		s.hub.Publish(event)
	}
}
