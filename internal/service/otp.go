package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-media-review/internal/domain"
	"go-media-review/internal/mail"
)

var otpEmailFailures = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "otp_email_failures_total",
	Help: "Count of OTP emails that failed to send",
})

func init() { prometheus.MustRegister(otpEmailFailures) }

const OtpCodeLength = 6

// OtpIssuer 给邮箱签发 6 位确认码。
// 时间窗内重复签发复用旧码，但有效期重置为新的一整窗。
type OtpIssuer struct {
	Repo   domain.OtpRepository
	Mailer mail.Mailer
	L      *zap.Logger
	TTL    time.Duration

	Now func() time.Time // 测试注入
}

func NewOtpIssuer(repo domain.OtpRepository, mailer mail.Mailer, l *zap.Logger, ttl time.Duration) *OtpIssuer {
	return &OtpIssuer{Repo: repo, Mailer: mailer, L: l, TTL: ttl, Now: time.Now}
}

// Issue 只有存储失败才返回错误；邮件发送失败记日志 + 指标后吞掉
func (s *OtpIssuer) Issue(email string) error {
	now := s.Now()

	code := ""
	if live, err := s.Repo.FindLive(email, now); err != nil {
		return err
	} else if live != nil {
		code = live.Code
		s.L.Debug("otp reused, window extended", zap.String("email", email))
	} else {
		c, err := randomCode(OtpCodeLength)
		if err != nil {
			return err
		}
		code = c
	}

	if err := s.Repo.Upsert(&domain.OtpCode{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}); err != nil {
		return err
	}

	subject := "Your confirmation code"
	body := fmt.Sprintf(
		"Your confirmation code: %s\nIt is valid for %d minutes.",
		code, int(s.TTL.Minutes()),
	)
	if err := s.Mailer.Send(email, subject, body); err != nil {
		// best-effort notify：投递失败不影响签发
		otpEmailFailures.Inc()
		s.L.Error("otp email send failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}

func randomCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
