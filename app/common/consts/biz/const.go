package biz

type CtxKey string

const (
	// SESSION_KEY carries the per-user memory key of the current request.
	// Authenticated requests use the subject of the access token; anonymous
	// requests fall back to a transport-derived key.
	SESSION_KEY CtxKey = "session_key"

	ACCESSTOKEN = "access_token"

	AnonymousPrefix = "anon:"
	UserPrefix      = "user:"
)
