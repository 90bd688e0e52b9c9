package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIssuer(t *testing.T) (*OtpIssuer, *fakeOtpRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeOtpRepo()
	mailer := &fakeMailer{}
	issuer := NewOtpIssuer(repo, mailer, zap.NewNop(), 10*time.Minute)
	return issuer, repo, mailer
}

func TestIssueGeneratesSixDigits(t *testing.T) {
	t.Parallel()

	issuer, repo, mailer := newTestIssuer(t)
	require.NoError(t, issuer.Issue("a@x.com"))

	row := repo.rows["a@x.com"]
	require.NotNil(t, row)
	assert.Len(t, row.Code, OtpCodeLength)
	for _, r := range row.Code {
		assert.True(t, r >= '0' && r <= '9', "code must be decimal digits, got %q", row.Code)
	}
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, row.Code)
}

func TestIssueReusesLiveCodeAndExtendsWindow(t *testing.T) {
	t.Parallel()

	issuer, repo, _ := newTestIssuer(t)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.Now = func() time.Time { return t0 }
	require.NoError(t, issuer.Issue("a@x.com"))
	first := *repo.rows["a@x.com"]

	// 8 分钟后再次签发：码不变，窗口刷新
	t1 := t0.Add(8 * time.Minute)
	issuer.Now = func() time.Time { return t1 }
	require.NoError(t, issuer.Issue("a@x.com"))
	second := *repo.rows["a@x.com"]

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, t1.Add(10*time.Minute), second.ExpiresAt)
}

func TestIssueRotatesAfterExpiry(t *testing.T) {
	t.Parallel()

	issuer, repo, _ := newTestIssuer(t)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.Now = func() time.Time { return t0 }
	require.NoError(t, issuer.Issue("a@x.com"))
	first := *repo.rows["a@x.com"]

	issuer.Now = func() time.Time { return t0.Add(11 * time.Minute) }
	require.NoError(t, issuer.Issue("a@x.com"))
	second := *repo.rows["a@x.com"]

	// 一千分之一概率随机撞到同码，这里只断言窗口而不断言不相等
	assert.Equal(t, t0.Add(21*time.Minute), second.ExpiresAt)
	_ = first
}

func TestIssueSwallowsMailFailure(t *testing.T) {
	t.Parallel()

	issuer, repo, mailer := newTestIssuer(t)
	mailer.fail = errors.New("smtp: connection refused")

	require.NoError(t, issuer.Issue("a@x.com"), "mail failure must not propagate")
	assert.NotNil(t, repo.rows["a@x.com"], "code must still be persisted")
}
