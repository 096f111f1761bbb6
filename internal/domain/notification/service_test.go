package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/events"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/pagination"
)

type testEnv struct {
	db     *gorm.DB
	repo   Repository
	svc    *Service
	sender auth.Identity
	alice  auth.Identity
	bob    auth.Identity
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Notification{}))

	env := &testEnv{db: db, repo: NewRepository(db)}
	mk := func(name string, role auth.Role) auth.Identity {
		u := &auth.User{Email: name + "@example.com", Name: name, PasswordHash: "x", Role: role}
		require.NoError(t, db.Create(u).Error)
		return auth.Identity{UserID: u.ID, Role: role}
	}
	env.sender = mk("panchayat", auth.RoleCreator)
	env.alice = mk("alice", auth.RoleWorker)
	env.bob = mk("bob", auth.RoleWorker)

	env.svc = NewService(env.repo, auth.NewUserRepository(db), nil)
	return env
}

func (e *testEnv) send(t *testing.T, to auth.Identity, title string) *Notification {
	t.Helper()
	n, err := e.svc.Send(context.Background(), e.sender, SendRequest{UserID: to.UserID, Title: title, Message: "body", Type: "info"})
	require.NoError(t, err)
	return n
}

func TestService_Send(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	n := env.send(t, env.alice, "  Meeting at 5  ")
	assert.Equal(t, "Meeting at 5", n.Title)
	assert.False(t, n.Read)

	_, err := env.svc.Send(ctx, env.sender, SendRequest{UserID: env.alice.UserID, Title: " ", Message: "m", Type: "info"})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))

	_, err = env.svc.Send(ctx, env.sender, SendRequest{UserID: "nope", Title: "t", Message: "m", Type: "info"})
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))

	_, err = env.svc.Send(ctx, env.sender, SendRequest{UserID: uuid.NewString(), Title: "t", Message: "m", Type: "info"})
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = env.svc.Send(ctx, auth.Identity{UserID: "x", Role: "Mayor"}, SendRequest{UserID: env.alice.UserID, Title: "t", Message: "m", Type: "info"})
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestService_ListMine(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first := env.send(t, env.alice, "one")
	env.send(t, env.alice, "two")
	env.send(t, env.alice, "three")
	env.send(t, env.bob, "not yours")

	_, err := env.svc.MarkRead(ctx, env.alice, first.ID)
	require.NoError(t, err)

	all, total, err := env.svc.ListMine(ctx, env.alice.UserID, false, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)

	unread, total, err := env.svc.ListMine(ctx, env.alice.UserID, true, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, n := range unread {
		assert.False(t, n.Read)
		assert.Equal(t, env.alice.UserID, n.UserID)
	}
}

func TestService_MarkRead(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	n := env.send(t, env.alice, "hello")

	_, err := env.svc.MarkRead(ctx, env.bob, n.ID)
	assert.ErrorIs(t, err, ErrNotRecipient)

	_, err = env.svc.MarkRead(ctx, env.alice, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := env.svc.MarkRead(ctx, env.alice, n.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)

	var stored Notification
	require.NoError(t, env.db.First(&stored, "id = ?", n.ID).Error)
	assert.True(t, stored.Read)
	assert.NotNil(t, stored.ReadAt)

	again, err := env.svc.MarkRead(ctx, env.alice, n.ID)
	require.NoError(t, err)
	assert.True(t, again.Read)
}

func TestSink_Handle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	sink := NewSink(env.repo)

	require.NoError(t, sink.Handle(ctx, events.Event{
		Type:        events.PaymentPaid,
		JobTitle:    "Plant 50 trees",
		RecipientID: env.alice.UserID,
		Data:        map[string]any{"amount": 500.0},
	}))
	require.NoError(t, sink.Handle(ctx, events.Event{
		Type:        events.SubmissionRejected,
		JobTitle:    "Plant 50 trees",
		RecipientID: env.alice.UserID,
		Data:        map[string]any{"rejection_reason": "photo is blurry"},
	}))
	// no recipient, nothing to write
	require.NoError(t, sink.Handle(ctx, events.Event{Type: events.ApplicationCreated}))

	list, total, err := env.repo.ListByUser(ctx, env.alice.UserID, false, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	byType := map[string]Notification{}
	for _, n := range list {
		byType[n.Type] = n
	}
	assert.Contains(t, byType[TypePaymentReleased].Message, "500.00")
	assert.Contains(t, byType[TypePaymentReleased].Message, "Plant 50 trees")
	assert.Contains(t, byType[TypeSubmissionRejected].Message, "photo is blurry")
}

func TestSink_WithDispatcher(t *testing.T) {
	env := setupTestEnv(t)
	d := events.NewDispatcher(nil, time.Second, NewSink(env.repo))

	d.Emit(context.Background(), events.Event{
		Type:        events.ApplicationAccepted,
		JobTitle:    "Clean the pond",
		RecipientID: env.bob.UserID,
	})
	d.Wait()

	var n Notification
	require.NoError(t, env.db.Where("user_id = ?", env.bob.UserID).First(&n).Error)
	assert.Equal(t, TypeApplicationAccepted, n.Type)
}

func TestCleanupService(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	old := &Notification{UserID: env.alice.UserID, Title: "old", Message: "m", Type: "info"}
	require.NoError(t, env.db.Create(old).Error)
	require.NoError(t, env.db.Model(old).UpdateColumn("created_at", time.Now().AddDate(0, 0, -120)).Error)
	fresh := env.send(t, env.alice, "fresh")

	cleanup := NewCleanupService(env.repo, nil)
	deleted, err := cleanup.CleanupOldNotifications(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []Notification
	require.NoError(t, env.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}
