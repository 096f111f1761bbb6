package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"climatejobs/internal/logger"
	"climatejobs/internal/pkg/validator"
)

type tokenIssuer interface {
	GenerateToken(userID string, role string) (string, error)
}

// Service contains registration, login and profile logic.
type Service struct {
	users      UserRepository
	tokens     tokenIssuer
	limiter    LoginLimiter
	tokenTTL   int64
	bcryptCost int
	log        *zap.Logger
}

type Option func(*Service)

func WithLoginLimiter(l LoginLimiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func WithTokenTTLSeconds(ttl int64) Option {
	return func(s *Service) { s.tokenTTL = ttl }
}

func NewService(users UserRepository, tokens tokenIssuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		limiter:    noopLimiter{},
		bcryptCost: bcrypt.DefaultCost,
		log:        logger.OrNop(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := validator.Coordinates(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	role := req.UserType
	if role == "" {
		role = RoleWorker
	}
	// admins are provisioned out of band, never self-registered
	if role != RoleWorker && role != RoleCreator {
		return nil, ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         role,
		RegionName:   strings.TrimSpace(req.RegionName),
		Location:     strings.TrimSpace(req.Location),
		Lat:          req.Lat,
		Lng:          req.Lng,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	blocked, err := s.limiter.Blocked(ctx, req.Email)
	if err != nil {
		// limiter outages must not lock everyone out
		s.log.Warn("login limiter unavailable", zap.Error(err))
	}
	if blocked {
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.recordFailure(ctx, req.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, req.Email)
		return nil, ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, req.Email); err != nil {
		s.log.Warn("login limiter reset failed", zap.Error(err))
	}
	return s.issue(user)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := validator.Coordinates(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.RegionName != nil {
		fields["region_name"] = strings.TrimSpace(*req.RegionName)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Lat != nil {
		fields["lat"] = *req.Lat
	}
	if req.Lng != nil {
		fields["lng"] = *req.Lng
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// CreateUser provisions an account with any role. Used by the seed command.
func (s *Service) CreateUser(ctx context.Context, email, password, name string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{Email: normalizeEmail(email), PasswordHash: hash, Name: name, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: user, SessionToken: token, ExpiresIn: s.tokenTTL}, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn("login limiter record failed", zap.Error(err))
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
