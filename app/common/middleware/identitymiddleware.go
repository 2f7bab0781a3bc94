package middleware

import (
	"fmt"
	"net"
	"net/http"

	"shopsage/app/common/consts/biz"
	"shopsage/app/common/util"

	"github.com/golang-jwt/jwt/v4"
)

// IdentityMiddleware resolves a per-user memory key for the chat endpoint.
// Authentication itself lives in the shop's auth service; here we only parse
// the access token it issued so that conversation memory follows the user.
// Anonymous and invalid-token requests stay anonymous instead of failing:
// the chat surface is public and memory is advisory.
type IdentityMiddleware struct {
	secret []byte
}

func NewIdentityMiddleware(accessSecret string) *IdentityMiddleware {
	return &IdentityMiddleware{secret: []byte(accessSecret)}
}

func (m *IdentityMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.InjectSessionKey(r, m.sessionKey(r))
		next(w, r)
	}
}

func (m *IdentityMiddleware) sessionKey(r *http.Request) string {
	token := ""
	if cookie, err := r.Cookie(biz.ACCESSTOKEN); err == nil {
		token = cookie.Value
	} else if headerToken := r.Header.Get(biz.ACCESSTOKEN); headerToken != "" {
		token = headerToken
	}

	if token != "" && len(m.secret) > 0 {
		if sub := m.subjectOf(token); sub != "" {
			return biz.UserPrefix + sub
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return biz.AnonymousPrefix + host
}

func (m *IdentityMiddleware) subjectOf(token string) string {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}

	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if uid, ok := claims["user_id"].(float64); ok && uid > 0 {
		return fmt.Sprintf("%.0f", uid)
	}
	return ""
}
