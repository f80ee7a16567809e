package authctx

import "context"

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	accessTokenKey contextKey = "access_token"
)

// WithUser сохраняет в контексте ID пользователя и его access token
func WithUser(ctx context.Context, userID, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, accessTokenKey, accessToken)
}

// UserID возвращает ID аутентифицированного пользователя
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// AccessToken возвращает access token пользователя (для запросов во внешние сервисы от его имени)
func AccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}
