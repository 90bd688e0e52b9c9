package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-media-review/internal/core/auth"
	"go-media-review/internal/domain"
)

func newTokenFixture(t *testing.T) (*TokenService, *fakeOtpRepo) {
	t.Helper()
	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	codes := newFakeOtpRepo()
	jwter := &auth.JWTer{Secret: []byte("test"), Issuer: "media-review", TTL: time.Hour}
	return NewTokenService(newFakeUserRepo(alice), codes, jwter), codes
}

func seedCode(codes *fakeOtpRepo, email, code string, expiresAt time.Time) {
	_ = codes.Upsert(&domain.OtpCode{Email: email, Code: code, ExpiresAt: expiresAt})
}

func TestExchangeSuccess(t *testing.T) {
	t.Parallel()

	s, codes := newTokenFixture(t)
	seedCode(codes, "a@x.com", "123456", time.Now().Add(5*time.Minute))

	tok, err := s.Exchange("alice", "123456")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := s.JWT.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "alice", claims.Username)
}

func TestExchangeUnknownUsername(t *testing.T) {
	t.Parallel()

	s, _ := newTokenFixture(t)
	_, err := s.Exchange("nobody", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExchangeGenericErrorIndistinguishable(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// 三种失败拿到完全相同的错误：没签发过、已过期、码不对
	t.Run("no code issued", func(t *testing.T) {
		t.Parallel()
		s, _ := newTokenFixture(t)
		s.Now = func() time.Time { return now }
		_, err := s.Exchange("alice", "123456")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("expired code", func(t *testing.T) {
		t.Parallel()
		s, codes := newTokenFixture(t)
		seedCode(codes, "a@x.com", "123456", now.Add(10*time.Minute))
		s.Now = func() time.Time { return now.Add(11 * time.Minute) }
		_, err := s.Exchange("alice", "123456")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("wrong code", func(t *testing.T) {
		t.Parallel()
		s, codes := newTokenFixture(t)
		seedCode(codes, "a@x.com", "123456", now.Add(10*time.Minute))
		s.Now = func() time.Time { return now }
		_, err := s.Exchange("alice", "654321")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestExchangeJustBeforeExpiryStillValid(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s, codes := newTokenFixture(t)
	seedCode(codes, "a@x.com", "123456", now.Add(10*time.Minute))
	s.Now = func() time.Time { return now.Add(10*time.Minute - time.Second) }

	tok, err := s.Exchange("alice", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}
