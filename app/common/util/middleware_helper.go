package util

import (
	"context"
	"net/http"

	"shopsage/app/common/consts/biz"
)

// SessionKeyFromCtx returns the per-user memory key injected by the identity
// middleware, or an empty string when no middleware ran.
func SessionKeyFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(biz.SESSION_KEY).(string); ok {
		return val
	}
	return ""
}

func InjectSessionKey(r *http.Request, key string) {
	ctx := context.WithValue(r.Context(), biz.SESSION_KEY, key)
	*r = *r.WithContext(ctx)
}
