package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-media-review/internal/domain"
)

func newSignupFixture(existing ...*domain.User) (*SignupService, *fakeUserRepo, *fakeMailer) {
	users := newFakeUserRepo(existing...)
	mailer := &fakeMailer{}
	issuer := NewOtpIssuer(newFakeOtpRepo(), mailer, zap.NewNop(), 10*time.Minute)
	return NewSignupService(users, issuer, zap.NewNop()), users, mailer
}

func TestSignupReservedUsernameAnyCasing(t *testing.T) {
	t.Parallel()

	s, _, _ := newSignupFixture()
	for _, name := range []string{"me", "Me", "ME", "mE"} {
		_, err := s.Signup(name, "a@x.com")
		fe, ok := AsFieldErrors(err)
		require.True(t, ok, "%q: expected field errors, got %v", name, err)
		assert.Contains(t, fe, "username")
		assert.NotContains(t, fe, "email")
	}
}

func TestSignupInvalidCharsEnumeratedSorted(t *testing.T) {
	t.Parallel()

	s, _, _ := newSignupFixture()
	_, err := s.Signup("b!o#b!", "a@x.com")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	require.Len(t, fe["username"], 1)
	// 去重后按码点排序：! < #
	assert.Contains(t, fe["username"][0], "!#")
}

func TestSignupUnicodeUsernames(t *testing.T) {
	t.Parallel()

	s, users, _ := newSignupFixture()
	for _, name := range []string{"привет", "映画好き", "Łukasz_1"} {
		u, err := s.Signup(name, name+"@x.com")
		require.NoError(t, err, "%q is a valid username", name)
		stored, _ := users.FindByUsername(name)
		require.NotNil(t, stored)
		assert.Equal(t, u.ID, stored.ID)
	}
}

func TestSignupUsernameLengthCountsRunes(t *testing.T) {
	t.Parallel()

	s, _, _ := newSignupFixture()

	// 150 个西里尔字符合法，虽然字节数是两倍
	ok := strings.Repeat("ж", 150)
	_, err := s.Signup(ok, "zh@x.com")
	require.NoError(t, err)

	_, err = s.Signup(strings.Repeat("ж", 151), "zh2@x.com")
	fe, isFe := AsFieldErrors(err)
	require.True(t, isFe)
	assert.Contains(t, fe, "username")
}

func TestSignupBannedUsernameStillConflicts(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	s, users, mailer := newSignupFixture(alice)
	require.NoError(t, users.DeleteByUsername("alice"))

	// 软删后 finder 查不到，但唯一索引还占着，必须报冲突而不是撞库
	_, err := s.Signup("alice", "fresh@x.com")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Contains(t, fe, "username")
	assert.Empty(t, mailer.sent)
}

func TestSignupCreatesUserAndSendsCode(t *testing.T) {
	t.Parallel()

	s, users, mailer := newSignupFixture()
	u, err := s.Signup("alice", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, domain.RoleUser, u.Role)

	stored, _ := users.FindByUsername("alice")
	require.NotNil(t, stored)
	require.Len(t, mailer.sent, 1)
}

func TestSignupIdempotentResend(t *testing.T) {
	t.Parallel()

	s, users, mailer := newSignupFixture()
	first, err := s.Signup("alice", "a@x.com")
	require.NoError(t, err)

	second, err := s.Signup("alice", "a@x.com")
	require.NoError(t, err, "identical pair must not error")
	assert.Equal(t, first.ID, second.ID, "no second user record")

	all, total, _ := users.List("", 0, 100)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)
	assert.Len(t, mailer.sent, 2, "OTP issued on both calls")
}

func TestSignupConflicts(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	carol := &domain.User{ID: "u2", Username: "carol", Email: "c@x.com", Role: domain.RoleUser}

	tests := []struct {
		name       string
		username   string
		email      string
		wantFields []string
	}{
		{"username taken", "alice", "b@y.com", []string{"username"}},
		{"email taken", "bob", "a@x.com", []string{"email"}},
		{"both taken by different users", "alice", "c@x.com", []string{"username", "email"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _, mailer := newSignupFixture(alice, carol)
			_, err := s.Signup(tt.username, tt.email)
			fe, ok := AsFieldErrors(err)
			require.True(t, ok, "expected field errors, got %v", err)
			require.Len(t, fe, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fe, f)
			}
			assert.Empty(t, mailer.sent, "no OTP on conflict")
		})
	}
}

func TestSignupDuplicateRaceFallsBackToResend(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	issuer := NewOtpIssuer(newFakeOtpRepo(), mailer, zap.NewNop(), 10*time.Minute)
	s := NewSignupService(users, issuer, zap.NewNop())

	// Create 抛唯一冲突，模拟并发请求先到者已建号
	users.create = func(u *domain.User) error {
		cp := *alice
		users.users[alice.ID] = &cp
		return assert.AnError
	}
	_, err := s.Signup("alice", "a@x.com")
	// assert.AnError 不含 duplicate 关键字，应按原错误返回
	require.Error(t, err)

	users.create = func(u *domain.User) error {
		cp := *alice
		users.users[alice.ID] = &cp
		return errDuplicate{}
	}
	users.users = map[string]*domain.User{}
	u, err := s.Signup("alice", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	require.Len(t, mailer.sent, 1)
}

type errDuplicate struct{}

func (errDuplicate) Error() string { return "duplicate key value violates unique constraint" }
