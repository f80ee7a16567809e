package models

import "github.com/m04kA/SMC-TherapySessions/internal/integrations/authservice"

const (
	MetadataFullName = "full_name"
	MetadataTimezone = "timezone"
)

// SignUpRequest форма регистрации
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,max=254"`
	Password        string `json:"password" validate:"required,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FullName        string `json:"fullName" validate:"max=100"`
	Timezone        string `json:"timezone" validate:"omitempty,timezone"`
}

// SignInRequest форма входа
type SignInRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// RefreshRequest запрос обновления сессии
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// PasswordCheckRequest запрос проверки пароля на соответствие политике
type PasswordCheckRequest struct {
	Password string `json:"password"`
}

// PasswordCheckResponse результат проверки пароля
type PasswordCheckResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// UserResponse профиль пользователя
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// SessionResponse сессия пользователя
type SessionResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	TokenType    string       `json:"tokenType"`
	ExpiresIn    int          `json:"expiresIn,omitempty"`
	User         UserResponse `json:"user"`
}

// SignUpResponse результат регистрации; Session отсутствует, пока email не подтверждён
type SignUpResponse struct {
	User                 UserResponse     `json:"user"`
	Session              *SessionResponse `json:"session,omitempty"`
	ConfirmationRequired bool             `json:"confirmationRequired"`
}

// FromUser преобразует пользователя сервиса аутентификации в ответ
func FromUser(u authservice.User) UserResponse {
	resp := UserResponse{ID: u.ID, Email: u.Email}
	if v, ok := u.UserMetadata[MetadataFullName].(string); ok {
		resp.FullName = v
	}
	if v, ok := u.UserMetadata[MetadataTimezone].(string); ok {
		resp.Timezone = v
	}
	return resp
}

// FromSession преобразует сессию сервиса аутентификации в ответ
func FromSession(s *authservice.Session) *SessionResponse {
	if s == nil {
		return nil
	}
	return &SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		User:         FromUser(s.User),
	}
}
