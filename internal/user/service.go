package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"agenda-service/internal/agenda"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// DefaultAgendaCreator gives every new account its first agenda.
type DefaultAgendaCreator interface {
	EnsureDefault(ctx context.Context, userID string) (*agenda.Agenda, error)
}

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	AddDeviceToken(ctx context.Context, userID, token string) error
	RemoveDeviceToken(ctx context.Context, userID, token string) error
	GetTokenUser(ctx context.Context, userID string) ([]string, error)
}

type userService struct {
	userRepository UserRepository
	agendas        DefaultAgendaCreator
	tokens         *TokenIssuer
	logger         *zap.SugaredLogger
	now            func() time.Time
}

func NewUserService(repo UserRepository, agendas DefaultAgendaCreator, tokens *TokenIssuer, logger *zap.SugaredLogger) UserService {
	return &userService{
		userRepository: repo,
		agendas:        agendas,
		tokens:         tokens,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &User{
		ID:           primitive.NewObjectID(),
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepository.Create(ctx, u); err != nil {
		return nil, err
	}

	if _, err := s.agendas.EnsureDefault(ctx, u.ID.Hex()); err != nil {
		// The agenda list endpoint recreates it on first use.
		s.logger.Errorw("default agenda not created", "user_id", u.ID.Hex(), "error", err)
	}

	s.logger.Infow("user registered", "user_id", u.ID.Hex())
	return s.authResponse(u)
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {

	u, err := s.userRepository.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(u)
}

func (s *userService) GetUser(ctx context.Context, userID string) (*User, error) {

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	u, err := s.userRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) AddDeviceToken(ctx context.Context, userID, token string) error {

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	return s.userRepository.AddDeviceToken(ctx, id, strings.TrimSpace(token))
}

func (s *userService) RemoveDeviceToken(ctx context.Context, userID, token string) error {

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	return s.userRepository.RemoveDeviceToken(ctx, id, token)
}

// GetTokenUser returns the push tokens registered for userID. An unknown
// user has none.
func (s *userService) GetTokenUser(ctx context.Context, userID string) ([]string, error) {

	u, err := s.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.DeviceTokens, nil
}

func (s *userService) authResponse(u *User) (*AuthResponse, error) {
	token, expires, err := s.tokens.Issue(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, ExpiresAt: expires, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
