package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWish(t *testing.T, author Identity) Wish {
	t.Helper()
	name := "Alice"
	wish, err := NewWish("a sunny weekend", &name, author)
	require.NoError(t, err)
	return wish
}

func TestNewWish(t *testing.T) {
	author := SessionIdentity(SessionID("sess-1"))
	wish := newTestWish(t, author)

	assert.NotEmpty(t, wish.ID().String())
	assert.Equal(t, "a sunny weekend", wish.Content().String())
	assert.Equal(t, "Alice", wish.DisplayName())
	assert.True(t, wish.Author().Equals(author))
	assert.Equal(t, 0, wish.SupportCount().Value())
	assert.Empty(t, wish.Supporters())
	assert.WithinDuration(t, time.Now(), wish.CreatedAt(), time.Second)
}

func TestNewWish_EmptyContent(t *testing.T) {
	_, err := NewWish("   ", nil, SessionIdentity(SessionID("s")))
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestNewWish_AnonymousName(t *testing.T) {
	wish, err := NewWish("anything", nil, SessionIdentity(SessionID("s")))
	require.NoError(t, err)
	assert.Nil(t, wish.Name())
	assert.Equal(t, "anonymous", wish.DisplayName())

	// Blank names collapse to anonymous too
	blank := "   "
	wish, err = NewWish("anything", &blank, SessionIdentity(SessionID("s")))
	require.NoError(t, err)
	assert.Equal(t, "anonymous", wish.DisplayName())
}

func TestWish_Update_PreservesIdentityAndSupports(t *testing.T) {
	author := UserIdentity(UserID(1))
	wish := newTestWish(t, author)
	supporter := SessionIdentity(SessionID("sess-2"))
	wish = wish.AddSupporter(supporter)

	newName := "Bob"
	updated, err := wish.Update(&newName, "a quiet winter")
	require.NoError(t, err)

	assert.Equal(t, wish.ID(), updated.ID())
	assert.True(t, updated.Author().Equals(author))
	assert.Equal(t, wish.CreatedAt(), updated.CreatedAt())
	assert.Equal(t, "a quiet winter", updated.Content().String())
	assert.Equal(t, "Bob", updated.DisplayName())
	assert.Equal(t, 1, updated.SupportCount().Value())
	assert.True(t, updated.IsSupportedBy(supporter))
}

func TestWish_Update_EmptyContent(t *testing.T) {
	wish := newTestWish(t, UserIdentity(UserID(1)))
	_, err := wish.Update(nil, "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestWish_CanSupport(t *testing.T) {
	author := UserIdentity(UserID(1))
	wish := newTestWish(t, author)

	// Self-support is always rejected
	check := wish.CanSupport(author)
	assert.False(t, check.IsValid)
	assert.Equal(t, SelfSupportCode, check.ErrorCode)

	// Any other identity may support
	check = wish.CanSupport(UserIdentity(UserID(2)))
	assert.True(t, check.IsValid)
	assert.Empty(t, check.ErrorCode)

	check = wish.CanSupport(SessionIdentity(SessionID("sess-1")))
	assert.True(t, check.IsValid)
}

func TestWish_CanSupport_SessionAuthor(t *testing.T) {
	author := SessionIdentity(SessionID("sess-author"))
	wish := newTestWish(t, author)

	check := wish.CanSupport(author)
	assert.False(t, check.IsValid)
	assert.Equal(t, SelfSupportCode, check.ErrorCode)
}

func TestWish_AddSupporter_Idempotent(t *testing.T) {
	wish := newTestWish(t, UserIdentity(UserID(1)))
	supporter := SessionIdentity(SessionID("sess-2"))

	wish = wish.AddSupporter(supporter)
	assert.Equal(t, 1, wish.SupportCount().Value())
	assert.True(t, wish.IsSupportedBy(supporter))

	// Adding the same identity again does not change anything
	wish = wish.AddSupporter(supporter)
	assert.Equal(t, 1, wish.SupportCount().Value())
	assert.Len(t, wish.Supporters(), 1)
}

func TestWish_RemoveSupporter_Idempotent(t *testing.T) {
	wish := newTestWish(t, UserIdentity(UserID(1)))
	supporter := SessionIdentity(SessionID("sess-2"))

	// Removing an absent supporter is a no-op
	unchanged := wish.RemoveSupporter(supporter)
	assert.Equal(t, 0, unchanged.SupportCount().Value())

	wish = wish.AddSupporter(supporter)
	wish = wish.RemoveSupporter(supporter)
	assert.Equal(t, 0, wish.SupportCount().Value())
	assert.False(t, wish.IsSupportedBy(supporter))
}

func TestWish_SupportCountMatchesSupporters(t *testing.T) {
	wish := newTestWish(t, UserIdentity(UserID(1)))

	identities := []Identity{
		UserIdentity(UserID(2)),
		UserIdentity(UserID(3)),
		SessionIdentity(SessionID("sess-a")),
		SessionIdentity(SessionID("sess-b")),
	}

	// Interleave adds and removes; the invariant must hold after every step
	for _, id := range identities {
		wish = wish.AddSupporter(id)
		assert.Equal(t, len(wish.Supporters()), wish.SupportCount().Value())
	}
	wish = wish.RemoveSupporter(identities[0])
	assert.Equal(t, len(wish.Supporters()), wish.SupportCount().Value())
	wish = wish.AddSupporter(identities[0])
	wish = wish.RemoveSupporter(identities[2])
	wish = wish.RemoveSupporter(identities[2])
	assert.Equal(t, len(wish.Supporters()), wish.SupportCount().Value())
	assert.Equal(t, 3, wish.SupportCount().Value())
}

func TestRestoreWish(t *testing.T) {
	author := UserIdentity(UserID(1))
	supporters := []Identity{
		SessionIdentity(SessionID("sess-a")),
		UserIdentity(UserID(2)),
	}
	count, err := NewSupportCount(2)
	require.NoError(t, err)
	content, err := NewWishContent("restored")
	require.NoError(t, err)
	createdAt := time.Now().Add(-time.Hour)

	wish := RestoreWish(WishID("wish-1"), content, nil, author, count, supporters, createdAt)

	assert.Equal(t, "wish-1", wish.ID().String())
	assert.Equal(t, 2, wish.SupportCount().Value())
	assert.True(t, wish.IsSupportedBy(supporters[0]))
	assert.True(t, wish.IsSupportedBy(supporters[1]))
	assert.Equal(t, createdAt, wish.CreatedAt())
	assert.Equal(t, "anonymous", wish.DisplayName())
}
