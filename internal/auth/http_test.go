package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abduss/accounts/internal/token"
	"github.com/abduss/accounts/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, user.RegisterValidators(testPhoneRule))

	f := newFixture(t)
	router := gin.New()
	RegisterRoutes(&router.RouterGroup, f.service, f.users, f.issuer)
	return router, f
}

func send(router http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var signUpBody = map[string]string{
	"firstName":   "Alice",
	"lastName":    "Smith",
	"phoneNumber": "+375295551234",
	"login":       "AliceSmith",
	"password":    "Str0ng!Pass",
}

func TestSignUpSignInRefreshScenario(t *testing.T) {
	router, f := newTestRouter(t)

	rec := send(router, http.MethodPost, "/auth/sign-up", signUpBody, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotContains(t, created, "passwordHash")
	userID, _ := created["id"].(string)
	require.NotEmpty(t, userID)

	rec = send(router, http.MethodPost, "/auth/sign-up", signUpBody, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with the same login already exists")

	wrongPassword := send(router, http.MethodPost, "/auth/sign-in", map[string]string{"login": "AliceSmith", "password": "Wr0ng!Pass"}, "")
	unknownLogin := send(router, http.MethodPost, "/auth/sign-in", map[string]string{"login": "NoSuchUser", "password": "Str0ng!Pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownLogin.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, wrongPassword.Body.String())
	assert.Equal(t, wrongPassword.Body.String(), unknownLogin.Body.String())

	rec = send(router, http.MethodPost, "/auth/sign-in", map[string]string{"login": "AliceSmith", "password": "Str0ng!Pass"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pair token.Pair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := f.issuer.Verify(token.AccessToken, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	f.clock.Advance(time.Second)
	rec = send(router, http.MethodGet, "/auth/refresh", nil, pair.RefreshToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var refreshed token.Pair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEqual(t, pair.AccessToken, refreshed.AccessToken)

	claims, err = f.issuer.Verify(token.RefreshToken, refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestSignUpRejectsInvalidInput(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]string{}
	for k, v := range signUpBody {
		body[k] = v
	}
	body["password"] = "weakpass"

	rec := send(router, http.MethodPost, "/auth/sign-up", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRejectsWrongTokens(t *testing.T) {
	router, f := newTestRouter(t)

	access, err := f.issuer.Issue(token.AccessToken, "5f0c7d44-8a57-4a8c-9e0b-7d8f1c0b6d11")
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"access token":   access,
		"garbage":        "not-a-jwt",
	}
	for name, bearer := range tests {
		t.Run(name, func(t *testing.T) {
			rec := send(router, http.MethodGet, "/auth/refresh", nil, bearer)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	router, f := newTestRouter(t)

	refresh, err := f.issuer.Issue(token.RefreshToken, "5f0c7d44-8a57-4a8c-9e0b-7d8f1c0b6d11")
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	rec := send(router, http.MethodGet, "/auth/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireTokenRejectsNonBearerScheme(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)

	router := gin.New()
	router.GET("/me", RequireToken(f.issuer, token.AccessToken), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.String(http.StatusOK, id)
	})

	access, err := f.issuer.Issue(token.AccessToken, "user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic "+access)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+access)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestSignUpRejectsPasswordOverBcryptLimit(t *testing.T) {
	router, f := newTestRouter(t)

	body := map[string]string{}
	for k, v := range signUpBody {
		body[k] = v
	}
	body["password"] = "Aa1!" + strings.Repeat("é", 40)
	require.Less(t, len([]rune(body["password"])), 72)
	require.Greater(t, len(body["password"]), 72)

	rec := send(router, http.MethodPost, "/auth/sign-up", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "72 bytes")
	assert.Empty(t, f.store.users)
}

func TestSignInRejectsIncompleteBodyAsInvalidCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	bodies := map[string]any{
		"empty login":    map[string]string{"login": "", "password": "Str0ng!Pass"},
		"empty password": map[string]string{"login": "AliceSmith", "password": ""},
		"no body":        nil,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec := send(router, http.MethodPost, "/auth/sign-in", body, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
		})
	}
}

func TestSignInOutcomes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := send(router, http.MethodPost, "/auth/sign-up", map[string]string{
		"firstName":   "Alice",
		"lastName":    "Smith",
		"phoneNumber": "+375295551234",
		"login":       "AliceSmith",
		"password":    "Password123!",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name     string
		login    string
		password string
		status   int
	}{
		{name: "correct credentials", login: "AliceSmith", password: "Password123!", status: http.StatusOK},
		{name: "wrong password", login: "AliceSmith", password: "wrong", status: http.StatusUnauthorized},
		{name: "unknown login", login: "NoSuchUser", password: "x", status: http.StatusUnauthorized},
	}

	var rejected []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(router, http.MethodPost, "/auth/sign-in", map[string]string{"login": tt.login, "password": tt.password}, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.status == http.StatusOK {
				var pair token.Pair
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				return
			}
			rejected = append(rejected, rec.Body.String())
		})
	}

	require.Len(t, rejected, 2)
	assert.Equal(t, rejected[0], rejected[1])
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rejected[0])
}
