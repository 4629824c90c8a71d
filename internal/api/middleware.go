package api

import (
	"fmt"
	"net/http"
)

func (s *ChatroomsApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Printf("panic: %v", panicError)
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				s.writeJson(w, errResp.StatusCode, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireAuth sends callers without a valid session to the login page.
func (s *ChatroomsApp) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := s.extractUserIdFromToken(r)
		if err != nil {
			http.Redirect(w, r, "/login/", http.StatusFound)
			return
		}

		ctx := WithUserId(r.Context(), userId)
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		next(w, r.WithContext(ctx))
	}
}

// withSession attaches the session user when one is present but never
// blocks the request. Handlers behind it decide what an anonymous
// caller may see.
func (s *ChatroomsApp) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userId, err := s.extractUserIdFromToken(r); err == nil {
			r = r.WithContext(WithUserId(r.Context(), userId))
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		}

		next(w, r)
	}
}
