package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lib/pq"
	"github.com/npezzotti/chatrooms/internal/database"
	"github.com/npezzotti/chatrooms/internal/forms"
	"github.com/npezzotti/chatrooms/internal/stats"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultJwtExpiration = time.Hour * 24
	tokenCookieKey       = "token"

	userIdClaim = "user-id"
	expClaim    = "exp"

	// single user-facing message for any credential failure
	badCredentialsMessage = "either username or password is incorrect"

	uniqueViolationCode = "23505"
)

type contextKey string

const userIdKey contextKey = "user-id"

func WithUserId(ctx context.Context, userId int) context.Context {
	return context.WithValue(ctx, userIdKey, userId)
}

func UserId(ctx context.Context) (int, bool) {
	userId, ok := ctx.Value(userIdKey).(int)

	return userId, ok
}

func (s *ChatroomsApp) extractUserIdFromToken(r *http.Request) (int, error) {
	tokenCookie, err := r.Cookie(tokenCookieKey)
	if err != nil {
		return 0, fmt.Errorf("get cookie: %w", err)
	}

	token, err := s.verifyToken(tokenCookie.Value)
	if err != nil {
		return 0, fmt.Errorf("verify token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	userId, ok := claims[userIdClaim].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user id claim")
	}

	return int(userId), nil
}

func (s *ChatroomsApp) createJwtForSession(userId int, exp time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIdClaim: userId,
		expClaim:    time.Now().Add(exp).Unix(),
	})

	return token.SignedString(s.signingKey)
}

func (s *ChatroomsApp) verifyToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return token, nil
}

func createJwtCookie(tokenString string, exp time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookieKey,
		Value:    tokenString,
		Path:     "/",
		Expires:  time.Now().Add(exp),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}

// loginForm serves the login page context. Authenticated callers are
// sent back to the room listing.
func (s *ChatroomsApp) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := UserId(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.writeJson(w, http.StatusOK, nil)
}

func (s *ChatroomsApp) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	form := forms.NewLoginForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		errResp := NewValidationError(errs)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbUser, err := s.db.GetAccountByUsername(form.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			errResp := NewUnauthorizedError(badCredentialsMessage)
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !dbUser.IsActive || !verifyPassword(dbUser.PasswordHash, form.Password) {
		errResp := NewUnauthorizedError(badCredentialsMessage)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	token, err := s.createJwtForSession(dbUser.Id, defaultJwtExpiration)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	http.SetCookie(w, createJwtCookie(token, defaultJwtExpiration))
	s.stats.Incr(stats.ActiveSessions)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ChatroomsApp) registerForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := UserId(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.writeJson(w, http.StatusOK, nil)
}

func (s *ChatroomsApp) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	form := forms.NewRegisterForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		errResp := NewValidationError(errs)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	pwdHash, err := hashPassword(form.Password1)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	_, err = s.db.CreateAccount(database.CreateAccountParams{
		Username:     form.Username,
		PasswordHash: pwdHash,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			errResp := NewValidationError(forms.Errors{
				"username": "a user with that username already exists",
			})
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr(stats.AccountsCreated)

	http.Redirect(w, r, "/login/", http.StatusFound)
}

func (s *ChatroomsApp) logout(w http.ResponseWriter, r *http.Request) {
	// instruct browser to delete cookie by overwriting it with an expired one
	cookie := createJwtCookie("", 0)
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)

	if _, ok := UserId(r.Context()); ok {
		s.stats.Decr(stats.ActiveSessions)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
