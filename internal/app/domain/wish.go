package domain

import (
	"strings"
	"time"
)

// Wish is the aggregate root: one post with its author identity, support
// count and supporter set. Values are immutable; mutating operations return
// a new Wish.
type Wish struct {
	id           WishID
	content      WishContent
	name         *string
	author       Identity
	supportCount SupportCount
	supporters   map[string]Identity
	createdAt    time.Time
}

// NewWish creates a fresh wish with a generated id, zero supports and
// createdAt set to now.
func NewWish(content string, name *string, author Identity) (Wish, error) {
	c, err := NewWishContent(content)
	if err != nil {
		return Wish{}, err
	}
	return Wish{
		id:           GenerateWishID(),
		content:      c,
		name:         normalizeName(name),
		author:       author,
		supportCount: SupportCount{},
		supporters:   map[string]Identity{},
		createdAt:    time.Now(),
	}, nil
}

// RestoreWish rebuilds a wish from persisted state. Count and supporters
// come from storage; callers are expected to pass a consistent pair.
func RestoreWish(id WishID, content WishContent, name *string, author Identity, count SupportCount, supporters []Identity, createdAt time.Time) Wish {
	set := make(map[string]Identity, len(supporters))
	for _, s := range supporters {
		set[s.Key()] = s
	}
	return Wish{
		id:           id,
		content:      content,
		name:         normalizeName(name),
		author:       author,
		supportCount: count,
		supporters:   set,
		createdAt:    createdAt,
	}
}

func (w Wish) ID() WishID             { return w.id }
func (w Wish) Content() WishContent   { return w.content }
func (w Wish) Author() Identity       { return w.author }
func (w Wish) SupportCount() SupportCount { return w.supportCount }
func (w Wish) CreatedAt() time.Time   { return w.createdAt }

// Name returns the display name, or nil for an anonymous wish.
func (w Wish) Name() *string {
	return w.name
}

// DisplayName renders the author-facing name, "anonymous" when absent.
func (w Wish) DisplayName() string {
	if w.name == nil {
		return "anonymous"
	}
	return *w.name
}

// Supporters returns a copy of the supporter identities.
func (w Wish) Supporters() []Identity {
	out := make([]Identity, 0, len(w.supporters))
	for _, s := range w.supporters {
		out = append(out, s)
	}
	return out
}

// Update replaces content and name. Id, author, createdAt, supporters and
// support count are preserved; support changes go through
// AddSupporter/RemoveSupporter.
func (w Wish) Update(name *string, content string) (Wish, error) {
	c, err := NewWishContent(content)
	if err != nil {
		return Wish{}, err
	}
	updated := w
	updated.content = c
	updated.name = normalizeName(name)
	updated.supporters = copySet(w.supporters)
	return updated, nil
}

// SupportCheck is the result of a CanSupport validation.
type SupportCheck struct {
	IsValid   bool
	ErrorCode string
}

// CanSupport fails iff the supporter is the wish's own author.
func (w Wish) CanSupport(supporter Identity) SupportCheck {
	if supporter.Equals(w.author) {
		return SupportCheck{IsValid: false, ErrorCode: SelfSupportCode}
	}
	return SupportCheck{IsValid: true}
}

// IsSupportedBy reports whether the identity is in the supporter set.
func (w Wish) IsSupportedBy(identity Identity) bool {
	_, ok := w.supporters[identity.Key()]
	return ok
}

// AddSupporter adds the identity and increments the count. Idempotent: an
// identity already present leaves the wish unchanged.
func (w Wish) AddSupporter(identity Identity) Wish {
	if w.IsSupportedBy(identity) {
		return w
	}
	updated := w
	updated.supporters = copySet(w.supporters)
	updated.supporters[identity.Key()] = identity
	updated.supportCount = w.supportCount.Increment()
	return updated
}

// RemoveSupporter removes the identity and decrements the count. No-op when
// the identity is not a supporter.
func (w Wish) RemoveSupporter(identity Identity) Wish {
	if !w.IsSupportedBy(identity) {
		return w
	}
	updated := w
	updated.supporters = copySet(w.supporters)
	delete(updated.supporters, identity.Key())
	decremented, err := w.supportCount.Decrement()
	if err != nil {
		// Set membership guarantees a positive count here.
		return w
	}
	updated.supportCount = decremented
	return updated
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func copySet(src map[string]Identity) map[string]Identity {
	dst := make(map[string]Identity, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
