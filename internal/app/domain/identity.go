package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// WishID identifies a single wish. UUID, assigned once at creation.
type WishID string

func NewWishID(value string) (WishID, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrEmptyWishID
	}
	return WishID(value), nil
}

// GenerateWishID mints a fresh random wish identifier.
func GenerateWishID() WishID {
	return WishID(uuid.NewString())
}

func (id WishID) String() string {
	return string(id)
}

// SessionID identifies an anonymous browser session.
type SessionID string

func NewSessionID(value string) (SessionID, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrEmptySessionID
	}
	return SessionID(value), nil
}

// GenerateSessionID mints a fresh random session identifier.
func GenerateSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string {
	return string(id)
}

// UserID identifies a registered account.
type UserID uint

func NewUserID(value uint) (UserID, error) {
	if value == 0 {
		return 0, ErrInvalidUserID
	}
	return UserID(value), nil
}

func (id UserID) Value() uint {
	return uint(id)
}

type identityKind string

const (
	kindUser    identityKind = "user"
	kindSession identityKind = "session"
)

// Identity is the tagged union of "who is acting": a registered user or an
// anonymous session. Exactly one side is set.
type Identity struct {
	kind    identityKind
	user    UserID
	session SessionID
}

func UserIdentity(id UserID) Identity {
	return Identity{kind: kindUser, user: id}
}

func SessionIdentity(id SessionID) Identity {
	return Identity{kind: kindSession, session: id}
}

// ResolveIdentity applies the precedence rule used everywhere: an
// authenticated user wins over an anonymous session.
func ResolveIdentity(userID *uint, sessionID *string) (Identity, error) {
	if userID != nil {
		id, err := NewUserID(*userID)
		if err != nil {
			return Identity{}, err
		}
		return UserIdentity(id), nil
	}
	if sessionID != nil {
		id, err := NewSessionID(*sessionID)
		if err != nil {
			return Identity{}, err
		}
		return SessionIdentity(id), nil
	}
	return Identity{}, ErrNoIdentity
}

func (i Identity) IsUser() bool {
	return i.kind == kindUser
}

func (i Identity) IsSession() bool {
	return i.kind == kindSession
}

func (i Identity) UserID() (UserID, bool) {
	return i.user, i.kind == kindUser
}

func (i Identity) SessionID() (SessionID, bool) {
	return i.session, i.kind == kindSession
}

// Equals compares by kind and value.
func (i Identity) Equals(other Identity) bool {
	return i.kind == other.kind && i.user == other.user && i.session == other.session
}

// Key returns a stable string form ("user:42" / "session:<uuid>") used as
// the supporter key in storage.
func (i Identity) Key() string {
	if i.kind == kindUser {
		return fmt.Sprintf("user:%d", i.user)
	}
	return fmt.Sprintf("session:%s", i.session)
}

// SupportCount is a non-negative counter kept in lockstep with the
// supporter set.
type SupportCount struct {
	value int
}

func NewSupportCount(value int) (SupportCount, error) {
	if value < 0 {
		return SupportCount{}, ErrNegativeCount
	}
	return SupportCount{value: value}, nil
}

func (c SupportCount) Value() int {
	return c.value
}

func (c SupportCount) Increment() SupportCount {
	return SupportCount{value: c.value + 1}
}

func (c SupportCount) Decrement() (SupportCount, error) {
	if c.value == 0 {
		return c, ErrCountUnderflow
	}
	return SupportCount{value: c.value - 1}, nil
}

// WishContent is the trimmed, non-empty text of a wish.
type WishContent string

const maxContentLength = 500

func NewWishContent(value string) (WishContent, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	if len([]rune(trimmed)) > maxContentLength {
		return "", ErrContentTooLong
	}
	return WishContent(trimmed), nil
}

func (c WishContent) String() string {
	return string(c)
}
