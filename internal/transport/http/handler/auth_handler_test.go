package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-media-review/internal/domain"
	"go-media-review/internal/service"
)

type stubSignup struct {
	user *domain.User
	err  error

	gotUsername string
	gotEmail    string
}

func (s *stubSignup) Signup(username, email string) (*domain.User, error) {
	s.gotUsername, s.gotEmail = username, email
	return s.user, s.err
}

type stubTokens struct {
	token string
	err   error
}

func (s *stubTokens) Exchange(username, code string) (string, error) {
	return s.token, s.err
}

func newAuthRouter(signup signupper, tokens tokenExchanger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	NewAuthHandler(signup, tokens).MountAPI(api)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupEndpoint(t *testing.T) {
	t.Parallel()

	stub := &stubSignup{user: &domain.User{Username: "bob", Email: "bob@example.com"}}
	r := newAuthRouter(stub, &stubTokens{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
		`{"username":"bob","email":"bob@example.com"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", stub.gotUsername)
	assert.JSONEq(t, `{"username":"bob","email":"bob@example.com"}`, w.Body.String())
}

func TestSignupEndpoint_FieldErrors(t *testing.T) {
	t.Parallel()

	fe := service.FieldErrors{}
	fe.Add("username", "this username is reserved")
	r := newAuthRouter(&stubSignup{err: fe}, &stubTokens{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
		`{"username":"me","email":"me@example.com"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"username":["this username is reserved"]}`, w.Body.String())
}

func TestSignupEndpoint_BadBody(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(&stubSignup{}, &stubTokens{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenEndpoint(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(&stubSignup{}, &stubTokens{token: "signed.jwt.here"})
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/token",
		`{"username":"bob","confirmation_code":"123456"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"signed.jwt.here"}`, w.Body.String())
}

func TestTokenEndpoint_UnknownUser(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(&stubSignup{}, &stubTokens{err: service.ErrNotFound})
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/token",
		`{"username":"ghost","confirmation_code":"123456"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenEndpoint_InvalidCode(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(&stubSignup{}, &stubTokens{err: service.ErrInvalidCode})
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/token",
		`{"username":"bob","confirmation_code":"000000"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
