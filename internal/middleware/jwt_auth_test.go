package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "middleware-test-secret"

type fakeVerifier struct {
	uid string
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken != "firebase-token" {
		return nil, errors.New("bad firebase token")
	}
	return &auth.Token{UID: f.uid}, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	if u, ok := f[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// run passes a request through Authenticate and captures the viewer the handler saw
func run(t *testing.T, cfg AuthConfig, header string) (services.Viewer, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen services.Viewer
	err := Authenticate(cfg)(func(c echo.Context) error {
		seen = ViewerFrom(c)
		return nil
	})(c)
	return seen, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestAuthenticateWithoutHeaderIsAnonymous(t *testing.T) {
	viewer, err := run(t, AuthConfig{Secret: secret}, "")
	require.NoError(t, err)
	assert.True(t, viewer.IsAnonymous())
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		_, err := run(t, AuthConfig{Secret: secret}, header)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err), header)
	}
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	token, err := GenerateToken(&models.User{ID: 7, Email: "a@example.com"}, secret, time.Hour)
	require.NoError(t, err)

	viewer, err := run(t, AuthConfig{Secret: secret}, "Bearer "+token)
	require.NoError(t, err)
	id, ok := viewer.ID()
	assert.True(t, ok)
	assert.EqualValues(t, 7, id)
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	expired, err := GenerateToken(&models.User{ID: 7}, secret, -time.Minute)
	require.NoError(t, err)
	_, err = run(t, AuthConfig{Secret: secret}, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	foreign, err := GenerateToken(&models.User{ID: 7}, "other-secret", time.Hour)
	require.NoError(t, err)
	_, err = run(t, AuthConfig{Secret: secret}, "Bearer "+foreign)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestAuthenticateFallsBackToFirebase(t *testing.T) {
	cfg := AuthConfig{
		Secret:   secret,
		Firebase: fakeVerifier{uid: "fb-1"},
		Users:    fakeUsers{"fb-1": {ID: 42, AccountStatus: models.AccountActive}},
	}

	viewer, err := run(t, cfg, "Bearer firebase-token")
	require.NoError(t, err)
	assert.True(t, viewer.Is(42))

	_, err = run(t, cfg, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestAuthenticateRejectsUnlinkedFirebaseAccount(t *testing.T) {
	cfg := AuthConfig{
		Secret:   secret,
		Firebase: fakeVerifier{uid: "fb-unknown"},
		Users:    fakeUsers{},
	}
	_, err := run(t, cfg, "Bearer firebase-token")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := RequireUser(c)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	c.Set(viewerKey, services.AuthenticatedAs(3))
	id, err := RequireUser(c)
	require.NoError(t, err)
	assert.EqualValues(t, 3, id)
}
