package rtserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "rts"

// issueToken mints a short-lived bearer token the same way tqs.generateJWT
// does for a logged-in user (§ server/token.go in the teacher), minus the
// per-user signing-key salt: this server has no user database, only a
// single shared API key, so the HMAC secret alone is the signing key.
func issueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := &jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// validateToken mirrors tqs.validateAndLookupJWTUser's validation options
// (valid method, issuer, leeway) without the DB lookup step, since there is
// no per-user record to re-derive a signing key from here.
func validateToken(tokStr string, secret []byte) (string, error) {
	parsed, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}
	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("cannot get subject: %w", err)
	}
	return subj, nil
}

func bearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}
