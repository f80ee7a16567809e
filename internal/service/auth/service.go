package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TherapySessions/internal/integrations/authservice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const maxFullNameLength = 100

// Service сервис регистрации, входа и управления сессиями
type Service struct {
	client   AuthClient
	password validation.PasswordRequirements
	logger   Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(client AuthClient, password validation.PasswordRequirements, logger Logger) *Service {
	return &Service{
		client:   client,
		password: password,
		logger:   logger,
	}
}

// CheckPassword проверяет пароль на соответствие политике без обращения к внешним сервисам
func (s *Service) CheckPassword(password string) validation.Result {
	return validation.ValidateField(password, "password", validation.Required, validation.PasswordRule(s.password))
}

// SignUp регистрирует пользователя. Ошибки формы возвращаются как *validation.FieldsError
func (s *Service) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SignUpResponse, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	values := map[string]string{
		"email":           email,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
		"fullName":        fullName,
		"timezone":        req.Timezone,
	}
	rules := map[string][]validation.Validator{
		"email":           {validation.Required, validation.Email},
		"password":        {validation.Required, validation.PasswordRule(s.password)},
		"confirmPassword": {validation.Required, validation.Matches(req.Password, "password")},
		"fullName":        {validation.Required, validation.MaxLength(maxFullNameLength)},
		"timezone":        {validation.Required, validation.Timezone},
	}
	if err := validation.ValidateForm(values, rules).Err(); err != nil {
		s.logger.Warn("SignUp: form rejected: %v", err)
		return nil, err
	}

	metadata := map[string]interface{}{
		models.MetadataFullName: fullName,
		models.MetadataTimezone: req.Timezone,
	}
	user, session, err := s.client.SignUp(ctx, email, req.Password, metadata)
	if err != nil {
		if errors.Is(err, authservice.ErrUserAlreadyExists) {
			s.logger.Warn("SignUp: email already registered")
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("SignUp: auth service error: %v", err)
		return nil, fmt.Errorf("%w: SignUp - auth service error: %v", ErrInternal, err)
	}

	s.logger.Info("SignUp: user registered: user_id=%s, confirmation_required=%t", user.ID, session == nil)
	resp := &models.SignUpResponse{
		User:                 models.FromUser(*user),
		Session:              models.FromSession(session),
		ConfirmationRequired: session == nil,
	}
	// сервис может не вернуть метаданные в ответе на регистрацию
	if resp.User.FullName == "" {
		resp.User.FullName = fullName
	}
	if resp.User.Timezone == "" {
		resp.User.Timezone = req.Timezone
	}
	return resp, nil
}

// SignIn вход по email и паролю
func (s *Service) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SessionResponse, error) {
	email := normalizeEmail(req.Email)

	result := validation.ValidateForm(
		map[string]string{"email": email, "password": req.Password},
		map[string][]validation.Validator{
			"email":    {validation.Required, validation.Email},
			"password": {validation.Required},
		},
	)
	if err := result.Err(); err != nil {
		return nil, err
	}

	session, err := s.client.SignIn(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			s.logger.Warn("SignIn: invalid credentials")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("SignIn: auth service error: %v", err)
		return nil, fmt.Errorf("%w: SignIn - auth service error: %v", ErrInternal, err)
	}

	s.logger.Info("SignIn: user signed in: user_id=%s", session.User.ID)
	return models.FromSession(session), nil
}

// SignOut завершает сессию
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if err := s.client.SignOut(ctx, accessToken); err != nil {
		s.logger.Error("SignOut: auth service error: %v", err)
		return fmt.Errorf("%w: SignOut - auth service error: %v", ErrInternal, err)
	}
	s.logger.Info("SignOut: session closed")
	return nil
}

// Refresh обменивает refresh token на новую сессию
func (s *Service) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.SessionResponse, error) {
	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.client.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidToken) {
			s.logger.Warn("Refresh: refresh token rejected")
			return nil, ErrInvalidToken
		}
		s.logger.Error("Refresh: auth service error: %v", err)
		return nil, fmt.Errorf("%w: Refresh - auth service error: %v", ErrInternal, err)
	}

	return models.FromSession(session), nil
}

// CurrentSession возвращает сессию для access token; ErrUnauthorized, если сессии нет
func (s *Service) CurrentSession(ctx context.Context, accessToken string) (*models.SessionResponse, error) {
	session, err := s.client.GetSession(ctx, accessToken)
	if err != nil {
		s.logger.Error("CurrentSession: auth service error: %v", err)
		return nil, fmt.Errorf("%w: CurrentSession - auth service error: %v", ErrInternal, err)
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	return models.FromSession(session), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
