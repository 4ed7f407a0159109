// Package auth содержит логику бизнес-уровня для регистрации, входа и выхода пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/sea-catering/internal/lib/jwt"
	"github.com/magabrotheeeer/sea-catering/internal/lib/password"
	"github.com/magabrotheeeer/sea-catering/internal/lib/validation"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/storage/repository"
)

// Ошибки бизнес-уровня аутентификации.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// WeakPasswordError содержит полный список нарушенных правил пароля.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Violations, "; ")
}

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// AdminExists сообщает, есть ли в базе хотя бы один администратор.
	AdminExists(ctx context.Context) (bool, error)
}

// TokenDenylist хранит отозванные токены до истечения их срока жизни.
type TokenDenylist interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// AuthService отвечает за регистрацию, авторизацию, выход и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	denylist TokenDenylist
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, denylist TokenDenylist, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		denylist: denylist,
		log:      log,
	}
}

func denylistKey(token string) string {
	return "revoked:" + token
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Возвращает созданного пользователя и токен доступа.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, string, error) {
	name = validation.Sanitize(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if !validation.IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if result := validation.ValidatePassword(rawPassword); !result.IsValid {
		return nil, "", &WeakPasswordError{Violations: result.Errors}
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.UID = uid

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("registered new user", slog.String("uid", uid))
	return &user, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout отзывает токен: он попадает в denylist на оставшееся время жизни.
// Выход идемпотентен, просроченный или неизвестный токен не считается ошибкой.
func (s *AuthService) Logout(_ context.Context, token string) error {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	if err := s.denylist.Set(denylistKey(token), true, remaining); err != nil {
		s.log.Warn("failed to add token to denylist", slog.Any("err", err))
		return err
	}
	return nil
}

// ValidateToken проверяет JWT, включая denylist, и возвращает данные пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	var revoked bool
	found, err := s.denylist.Get(denylistKey(token), &revoked)
	if err != nil {
		return nil, err
	}
	if found && revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		UID:   claims.UserUID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

// EnsureAdmin создает учетную запись администратора при первом запуске,
// если в базе еще нет ни одного администратора.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, rawPassword string) error {
	const op = "services.auth.EnsureAdmin"

	exists, err := s.users.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.users.RegisterUser(ctx, models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("seeded admin account", slog.String("uid", uid))
	return nil
}
