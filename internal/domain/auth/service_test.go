package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"climatejobs/internal/pkg/apperr"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if u.ID == "" {
		u.ID = "11111111-1111-4111-8111-111111111111"
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) GenerateToken(userID string, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func newTestService(repo *mockUserRepo, tokens *mockTokens, opts ...Option) *Service {
	opts = append(opts, WithBcryptCost(bcrypt.MinCost))
	return NewService(repo, tokens, nil, opts...)
}

func TestService_Register_DefaultsToWorker(t *testing.T) {
	repo := new(mockUserRepo)
	tokens := new(mockTokens)
	svc := newTestService(repo, tokens)

	repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Role == RoleWorker && u.Email == "new@example.com" && u.PasswordHash != "secret1"
	})).Return(nil)
	tokens.On("GenerateToken", mock.Anything, string(RoleWorker)).Return("jwt-token", nil)

	session, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  New@Example.com ",
		Password: "secret1",
		Name:     "Asha",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", session.SessionToken)
	assert.Equal(t, RoleWorker, session.User.Role)
	repo.AssertExpectations(t)
}

func TestService_Register_RejectsAdminSelfRegistration(t *testing.T) {
	svc := newTestService(new(mockUserRepo), new(mockTokens))

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "a@example.com", Password: "secret1", Name: "A", UserType: RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestService_Register_Validation(t *testing.T) {
	svc := newTestService(new(mockUserRepo), new(mockTokens))
	badLat := 123.0

	cases := map[string]RegisterRequest{
		"missing name": {Email: "a@example.com", Password: "secret1"},
		"bad email":    {Email: "nope", Password: "secret1", Name: "A"},
		"short phone":  {Email: "a@example.com", Password: "secret1", Name: "A", PhoneNumber: "123"},
		"bad latitude": {Email: "a@example.com", Password: "secret1", Name: "A", Lat: &badLat},
		"unknown role": {Email: "a@example.com", Password: "secret1", Name: "A", UserType: "Mayor"},
	}
	for name, req := range cases {
		_, err := svc.Register(context.Background(), req)
		assert.Equal(t, apperr.Invalid, apperr.KindOf(err), name)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo, new(mockTokens))
	repo.On("ExistsByEmail", mock.Anything, "dup@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "dup@example.com", Password: "secret1", Name: "D"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Login(t *testing.T) {
	repo := new(mockUserRepo)
	tokens := new(mockTokens)
	svc := newTestService(repo, tokens)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	user := &User{ID: "u-1", Email: "gp@example.com", PasswordHash: string(hash), Role: RoleCreator}
	repo.On("GetByEmail", mock.Anything, "gp@example.com").Return(user, nil)
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)
	tokens.On("GenerateToken", "u-1", string(RoleCreator)).Return("tok", nil)

	session, err := svc.Login(context.Background(), LoginRequest{Email: "GP@example.com", Password: "correct"})
	require.NoError(t, err)
	assert.Equal(t, "tok", session.SessionToken)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "gp@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_LockoutWithRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLoginLimiter(client, 2, time.Minute)

	repo := new(mockUserRepo)
	tokens := new(mockTokens)
	svc := newTestService(repo, tokens, WithLoginLimiter(limiter))

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	repo.On("GetByEmail", mock.Anything, "w@example.com").Return(&User{ID: "u-2", PasswordHash: string(hash), Role: RoleWorker}, nil)
	tokens.On("GenerateToken", "u-2", string(RoleWorker)).Return("tok", nil)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, LoginRequest{Email: "w@example.com", Password: "bad"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "w@example.com", Password: "correct"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	mr.FastForward(2 * time.Minute)

	_, err = svc.Login(ctx, LoginRequest{Email: "w@example.com", Password: "correct"})
	require.NoError(t, err)

	blocked, err := limiter.Blocked(ctx, "w@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestService_UpdateProfile(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo, new(mockTokens))

	name := " Ravi "
	repo.On("UpdateProfile", mock.Anything, "u-3", map[string]any{"name": "Ravi"}).Return(nil)
	repo.On("GetByID", mock.Anything, "u-3").Return(&User{ID: "u-3", Name: "Ravi", Role: RoleWorker}, nil)

	user, err := svc.UpdateProfile(context.Background(), "u-3", UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", user.Name)

	_, err = svc.UpdateProfile(context.Background(), "u-3", UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestIdentityPermissions(t *testing.T) {
	worker := Identity{UserID: "w", Role: RoleWorker}
	creator := Identity{UserID: "c", Role: RoleCreator}
	admin := Identity{UserID: "a", Role: RoleAdmin}

	assert.False(t, worker.Can(PermManageJobs))
	assert.True(t, worker.Can(PermApplyJobs))
	assert.True(t, creator.Can(PermManageJobs))
	assert.False(t, creator.Can(PermForceJobStatus))
	assert.True(t, admin.Can(PermForceJobStatus))

	assert.True(t, creator.CanManage("c"))
	assert.False(t, creator.CanManage("someone-else"))
	assert.False(t, worker.CanManage(""))
	assert.True(t, admin.CanManage("someone-else"))

	assert.False(t, Identity{UserID: "x", Role: "Mayor"}.Can(PermApplyJobs))
}
