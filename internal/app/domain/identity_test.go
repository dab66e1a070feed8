package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWishID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "Valid id", value: "abc-123", wantErr: nil},
		{name: "Empty id", value: "", wantErr: ErrEmptyWishID},
		{name: "Whitespace only", value: "   ", wantErr: ErrEmptyWishID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewWishID(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.value, id.String())
			}
		})
	}
}

func TestGenerateWishID_Unique(t *testing.T) {
	seen := map[WishID]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateWishID()
		assert.NotEmpty(t, id.String())
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestNewSessionID(t *testing.T) {
	_, err := NewSessionID("")
	assert.ErrorIs(t, err, ErrEmptySessionID)

	_, err = NewSessionID("  ")
	assert.ErrorIs(t, err, ErrEmptySessionID)

	id, err := NewSessionID("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id.String())
}

func TestNewUserID(t *testing.T) {
	_, err := NewUserID(0)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	id, err := NewUserID(42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.Value())
}

func TestResolveIdentity_Precedence(t *testing.T) {
	userID := uint(7)
	sessionID := "sess-abc"

	// User wins over session when both are present
	identity, err := ResolveIdentity(&userID, &sessionID)
	require.NoError(t, err)
	assert.True(t, identity.IsUser())
	uid, ok := identity.UserID()
	require.True(t, ok)
	assert.Equal(t, uint(7), uid.Value())

	// Session only
	identity, err = ResolveIdentity(nil, &sessionID)
	require.NoError(t, err)
	assert.True(t, identity.IsSession())
	sid, ok := identity.SessionID()
	require.True(t, ok)
	assert.Equal(t, "sess-abc", sid.String())

	// Neither
	_, err = ResolveIdentity(nil, nil)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestIdentity_Equals(t *testing.T) {
	userA := UserIdentity(UserID(1))
	userB := UserIdentity(UserID(2))
	sessA := SessionIdentity(SessionID("a"))
	sessB := SessionIdentity(SessionID("b"))

	assert.True(t, userA.Equals(UserIdentity(UserID(1))))
	assert.False(t, userA.Equals(userB))
	assert.True(t, sessA.Equals(SessionIdentity(SessionID("a"))))
	assert.False(t, sessA.Equals(sessB))

	// Kind matters, not just the raw value
	assert.False(t, userA.Equals(sessA))
}

func TestIdentity_Key(t *testing.T) {
	assert.Equal(t, "user:42", UserIdentity(UserID(42)).Key())
	assert.Equal(t, "session:abc", SessionIdentity(SessionID("abc")).Key())
}

func TestSupportCount(t *testing.T) {
	_, err := NewSupportCount(-1)
	assert.ErrorIs(t, err, ErrNegativeCount)

	count, err := NewSupportCount(0)
	require.NoError(t, err)
	assert.Equal(t, 0, count.Value())

	incremented := count.Increment()
	assert.Equal(t, 1, incremented.Value())
	// Original is unchanged
	assert.Equal(t, 0, count.Value())

	decremented, err := incremented.Decrement()
	require.NoError(t, err)
	assert.Equal(t, 0, decremented.Value())

	_, err = decremented.Decrement()
	assert.ErrorIs(t, err, ErrCountUnderflow)
}

func TestNewWishContent(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{name: "Valid content", value: "world peace", want: "world peace"},
		{name: "Trims whitespace", value: "  a better year  ", want: "a better year"},
		{name: "Empty", value: "", wantErr: ErrEmptyContent},
		{name: "Whitespace only", value: "   \t\n", wantErr: ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := NewWishContent(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, content.String())
			}
		})
	}
}

func TestNewWishContent_TooLong(t *testing.T) {
	long := make([]rune, maxContentLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := NewWishContent(string(long))
	assert.ErrorIs(t, err, ErrContentTooLong)

	// Exactly at the limit is fine
	_, err = NewWishContent(string(long[:maxContentLength]))
	assert.NoError(t, err)
}
