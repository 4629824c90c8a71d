package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/npezzotti/chatrooms/internal/config"
	"github.com/npezzotti/chatrooms/internal/database"
	"github.com/npezzotti/chatrooms/internal/stats"
	"github.com/npezzotti/chatrooms/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestApp(t *testing.T, repo database.ChatroomsRepository, su *stats.MockStatsProvider) *ChatroomsApp {
	cfg := &config.Config{SigningKey: []byte("test-signing-key")}
	return NewChatroomsApp(http.NewServeMux(), testutil.TestLogger(t), repo, su, cfg)
}

// formRequest builds a form-encoded POST request for the given path.
func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// findCookie is a helper function to find a cookie by name in the response recorder.
// It returns the cookie if found, or nil if not found.
func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestUserId(t *testing.T) {
	tcases := []struct {
		name     string
		ctx      context.Context
		userId   int
		expected bool
	}{
		{
			name:     "no user ID",
			ctx:      context.Background(),
			expected: false,
		},
		{
			name:     "user ID set",
			ctx:      WithUserId(context.Background(), 42),
			userId:   42,
			expected: true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			userId, ok := UserId(tc.ctx)
			assert.Equal(t, tc.expected, ok, "expected UserId to return %v", tc.expected)
			assert.Equal(t, tc.userId, userId, "expected UserId to return %d", tc.userId)
		})
	}
}

func TestJwtSessionRoundTrip(t *testing.T) {
	app := newTestApp(t, &database.MockChatroomsRepository{}, &stats.MockStatsProvider{})

	token, err := app.createJwtForSession(7, time.Hour)
	assert.NoError(t, err, "expected token creation to succeed")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(createJwtCookie(token, time.Hour))

	userId, err := app.extractUserIdFromToken(req)
	assert.NoError(t, err, "expected token verification to succeed")
	assert.Equal(t, 7, userId, "expected user id from token to match")
}

func TestLoginHandler(t *testing.T) {
	hash, err := hashPassword("password123")
	assert.NoError(t, err)

	activeUser := database.User{
		Id:           1,
		Username:     "alice",
		PasswordHash: hash,
		IsActive:     true,
	}
	inactiveUser := activeUser
	inactiveUser.IsActive = false

	tcases := []struct {
		name           string
		form           url.Values
		mockUser       database.User
		mockErr        error
		expectMockCall bool
		expectedCode   int
		expectCookie   bool
	}{
		{
			name:           "successful login",
			form:           url.Values{"username": {"alice"}, "password": {"password123"}},
			mockUser:       activeUser,
			expectMockCall: true,
			expectedCode:   http.StatusFound,
			expectCookie:   true,
		},
		{
			name:           "wrong password",
			form:           url.Values{"username": {"alice"}, "password": {"wrong"}},
			mockUser:       activeUser,
			expectMockCall: true,
			expectedCode:   http.StatusUnauthorized,
		},
		{
			name:           "unknown username",
			form:           url.Values{"username": {"nobody"}, "password": {"password123"}},
			mockErr:        sql.ErrNoRows,
			expectMockCall: true,
			expectedCode:   http.StatusUnauthorized,
		},
		{
			name:           "inactive account",
			form:           url.Values{"username": {"alice"}, "password": {"password123"}},
			mockUser:       inactiveUser,
			expectMockCall: true,
			expectedCode:   http.StatusUnauthorized,
		},
		{
			name:         "missing password",
			form:         url.Values{"username": {"alice"}},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockChatroomsRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.expectMockCall {
				mockRepo.On("GetAccountByUsername", tc.form.Get("username")).
					Return(tc.mockUser, tc.mockErr).Once()
			}

			su := &stats.MockStatsProvider{}
			defer su.AssertExpectations(t)
			if tc.expectCookie {
				su.On("Incr", stats.ActiveSessions).Once()
			}

			app := newTestApp(t, mockRepo, su)

			rr := httptest.NewRecorder()
			app.login(rr, formRequest("/login/", tc.form))

			assert.Equal(t, tc.expectedCode, rr.Code)

			if tc.expectedCode == http.StatusUnauthorized {
				assert.Contains(t, rr.Body.String(), badCredentialsMessage,
					"expected the single generic credential error")
			}

			cookie := findCookie(rr, tokenCookieKey)
			if tc.expectCookie {
				assert.NotNil(t, cookie, "expected session cookie to be set")
				assert.NotEmpty(t, cookie.Value, "expected session cookie to carry a token")
				assert.Equal(t, "/", rr.Header().Get("Location"), "expected redirect to the room listing")
			} else {
				assert.Nil(t, cookie, "expected no session cookie")
			}
		})
	}
}

func TestLoginFormRedirectsAuthenticated(t *testing.T) {
	app := newTestApp(t, &database.MockChatroomsRepository{}, &stats.MockStatsProvider{})

	req := httptest.NewRequest(http.MethodGet, "/login/", nil)
	req = req.WithContext(WithUserId(req.Context(), 1))

	rr := httptest.NewRecorder()
	app.loginForm(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	app.loginForm(rr, httptest.NewRequest(http.MethodGet, "/login/", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "expected anonymous caller to get the form context")
}

func TestRegisterHandler(t *testing.T) {
	tcases := []struct {
		name             string
		form             url.Values
		mockErr          error
		expectMockCall   bool
		expectedCode     int
		expectedLocation string
		expectedErrField string
	}{
		{
			name: "successful registration",
			form: url.Values{
				"username":  {"bob"},
				"password1": {"password123"},
				"password2": {"password123"},
			},
			expectMockCall:   true,
			expectedCode:     http.StatusFound,
			expectedLocation: "/login/",
		},
		{
			name: "password mismatch",
			form: url.Values{
				"username":  {"bob"},
				"password1": {"password123"},
				"password2": {"different123"},
			},
			expectedCode:     http.StatusBadRequest,
			expectedErrField: "password2",
		},
		{
			name: "password too short",
			form: url.Values{
				"username":  {"bob"},
				"password1": {"short"},
				"password2": {"short"},
			},
			expectedCode:     http.StatusBadRequest,
			expectedErrField: "password1",
		},
		{
			name: "duplicate username",
			form: url.Values{
				"username":  {"bob"},
				"password1": {"password123"},
				"password2": {"password123"},
			},
			mockErr:          &pq.Error{Code: uniqueViolationCode},
			expectMockCall:   true,
			expectedCode:     http.StatusBadRequest,
			expectedErrField: "username",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockChatroomsRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.expectMockCall {
				mockRepo.On("CreateAccount", mock.MatchedBy(func(params database.CreateAccountParams) bool {
					return params.Username == tc.form.Get("username") &&
						verifyPassword(params.PasswordHash, tc.form.Get("password1"))
				})).Return(database.User{Id: 2, Username: tc.form.Get("username")}, tc.mockErr).Once()
			}

			su := &stats.MockStatsProvider{}
			defer su.AssertExpectations(t)
			if tc.expectedCode == http.StatusFound {
				su.On("Incr", stats.AccountsCreated).Once()
			}

			app := newTestApp(t, mockRepo, su)

			rr := httptest.NewRecorder()
			app.register(rr, formRequest("/register/", tc.form))

			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
			}
			if tc.expectedErrField != "" {
				assert.Contains(t, rr.Body.String(), tc.expectedErrField,
					"expected a field error for %s", tc.expectedErrField)
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		su := &stats.MockStatsProvider{}
		defer su.AssertExpectations(t)
		su.On("Decr", stats.ActiveSessions).Once()

		app := newTestApp(t, &database.MockChatroomsRepository{}, su)

		req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
		req = req.WithContext(WithUserId(req.Context(), 1))
		rr := httptest.NewRecorder()
		app.logout(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))

		cookie := findCookie(rr, tokenCookieKey)
		assert.NotNil(t, cookie, "expected the token cookie to be overwritten")
		assert.Empty(t, cookie.Value, "expected the token cookie to be cleared")
		assert.True(t, cookie.Expires.Before(time.Now()), "expected the token cookie to be expired")
		assert.Negative(t, cookie.MaxAge, "expected the token cookie to be deleted")
	})

	t.Run("anonymous", func(t *testing.T) {
		su := &stats.MockStatsProvider{}
		defer su.AssertExpectations(t)

		app := newTestApp(t, &database.MockChatroomsRepository{}, su)

		rr := httptest.NewRecorder()
		app.logout(rr, httptest.NewRequest(http.MethodGet, "/logout/", nil))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})
}
