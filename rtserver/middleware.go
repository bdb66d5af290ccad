package rtserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeySubject
)

// requestID tags every request with a uuid the way recognizer.Base tags
// every parse with a SessionID, so a line in an rtobserve Sink or in the log
// can be traced back to the request that produced it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(req.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func requestIDFrom(req *http.Request) string {
	if id, ok := req.Context().Value(ctxKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// requireBearer is the AuthHandler equivalent (server/middle/middle.go) for
// this server: there is no user database to look a subject up in, just a
// signed claim to check, so it's a plain func-wrapping middleware rather
// than middle.AuthHandler's struct-with-db shape.
func requireBearer(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		tokStr, err := bearerToken(req)
		if err != nil {
			jsonUnauthorized("", "missing bearer token: %s", err.Error()).write(w, req)
			return
		}

		subj, err := validateToken(tokStr, secret)
		if err != nil {
			jsonUnauthorized("", "invalid bearer token: %s", err.Error()).write(w, req)
			return
		}

		ctx := context.WithValue(req.Context(), ctxKeySubject, subj)
		next.ServeHTTP(w, req.WithContext(ctx))
	}
}
