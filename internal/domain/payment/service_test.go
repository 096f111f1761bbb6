package payment

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
	"climatejobs/internal/domain/job"
	"climatejobs/internal/events"
	"climatejobs/internal/pkg/apperr"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Emit(_ context.Context, e events.Event) {
	r.events = append(r.events, e)
}

type testEnv struct {
	db      *gorm.DB
	svc     *Service
	events  *recorder
	creator auth.Identity
	other   auth.Identity
	worker  auth.Identity
	admin   auth.Identity
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &job.Job{}, &Payment{}))

	env := &testEnv{db: db, events: &recorder{}}
	mk := func(name string, role auth.Role) auth.Identity {
		u := &auth.User{Email: name + "@example.com", Name: name, PhoneNumber: "9876543210", PasswordHash: "x", Role: role}
		require.NoError(t, db.Create(u).Error)
		return auth.Identity{UserID: u.ID, Role: role}
	}
	env.creator = mk("creator", auth.RoleCreator)
	env.other = mk("other", auth.RoleCreator)
	env.worker = mk("worker", auth.RoleWorker)
	env.admin = mk("admin", auth.RoleAdmin)

	env.svc = NewService(db, env.events, nil)
	env.svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return env
}

// newPayment seeds a job in the given status plus a payment for the worker.
func (e *testEnv) newPayment(t *testing.T, owner auth.Identity, jobStatus job.Status, reward float64, status Status) (*job.Job, *Payment) {
	t.Helper()
	j := &job.Job{
		Title:        "Clean the riverbank",
		Category:     job.CategoryWasteManagement,
		Status:       jobStatus,
		RewardAmount: reward,
		CreatedBy:    owner.UserID,
		AssignedTo:   &e.worker.UserID,
	}
	require.NoError(t, e.db.Create(j).Error)

	p := NewPending(j, e.worker.UserID, uuid.NewString())
	p.Status = status
	require.NoError(t, e.db.Create(p).Error)
	return j, p
}

func TestNewPending_CopiesReward(t *testing.T) {
	j := &job.Job{ID: "job-1", RewardAmount: 750}
	p := NewPending(j, "w-1", "s-1")

	assert.Equal(t, 750.0, p.Amount)
	assert.Equal(t, StatusPending, p.Status)
	assert.True(t, p.Payable())

	p.Status = StatusPaid
	assert.False(t, p.Payable())
}

func TestService_Approve(t *testing.T) {
	env := setupTestEnv(t)
	j, p := env.newPayment(t, env.creator, job.StatusVerified, 500, StatusPending)

	approval, err := env.svc.Approve(context.Background(), env.creator, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, approval.Status)
	assert.Equal(t, job.StatusPaid, approval.JobStatus)

	var stored Payment
	require.NoError(t, env.db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, StatusPaid, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, env.creator.UserID, *stored.ApprovedBy)
	assert.NotNil(t, stored.PaidAt)

	var storedJob job.Job
	require.NoError(t, env.db.First(&storedJob, "id = ?", j.ID).Error)
	assert.Equal(t, job.StatusPaid, storedJob.Status)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, events.PaymentPaid, env.events.events[0].Type)
	assert.Equal(t, env.worker.UserID, env.events.events[0].RecipientID)

	_, err = env.svc.Approve(context.Background(), env.creator, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestService_Approve_Rejections(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := env.svc.Approve(ctx, env.creator, uuid.NewString())
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})

	t.Run("other creator", func(t *testing.T) {
		_, p := env.newPayment(t, env.creator, job.StatusVerified, 100, StatusPending)
		_, err := env.svc.Approve(ctx, env.other, p.ID)
		assert.ErrorIs(t, err, ErrNotJobOwner)
	})

	t.Run("job not verified rolls back", func(t *testing.T) {
		_, p := env.newPayment(t, env.creator, job.StatusCompleted, 100, StatusPending)
		_, err := env.svc.Approve(ctx, env.creator, p.ID)
		assert.ErrorIs(t, err, ErrJobNotVerified)

		var stored Payment
		require.NoError(t, env.db.First(&stored, "id = ?", p.ID).Error)
		assert.Equal(t, StatusPending, stored.Status)
		assert.Nil(t, stored.PaidAt)
	})

	t.Run("admin may release any payment", func(t *testing.T) {
		_, p := env.newPayment(t, env.other, job.StatusVerified, 100, StatusApproved)
		approval, err := env.svc.Approve(ctx, env.admin, p.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, approval.Status)
	})
}

func TestService_Wallet(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, paid := env.newPayment(t, env.creator, job.StatusVerified, 500, StatusPending)
	_, err := env.svc.Approve(ctx, env.creator, paid.ID)
	require.NoError(t, err)
	env.newPayment(t, env.creator, job.StatusVerified, 200, StatusPending)
	env.newPayment(t, env.creator, job.StatusVerified, 50, StatusApproved)

	w, err := env.svc.Wallet(ctx, env.worker.UserID)
	require.NoError(t, err)
	assert.InDelta(t, 500, w.TotalEarned, 0.001)
	assert.InDelta(t, 500, w.PaidAmount, 0.001)
	assert.InDelta(t, 250, w.PendingAmount, 0.001)
	require.Len(t, w.Transactions, 3)
	for _, tx := range w.Transactions {
		assert.Equal(t, "Clean the riverbank", tx.JobTitle)
		assert.Equal(t, env.worker.UserID, tx.WorkerID)
	}

	empty, err := env.svc.Wallet(ctx, env.creator.UserID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalEarned)
	assert.Empty(t, empty.Transactions)
}

func TestService_PendingApprovals(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, mine := env.newPayment(t, env.creator, job.StatusVerified, 300, StatusPending)
	env.newPayment(t, env.other, job.StatusVerified, 100, StatusPending)
	env.newPayment(t, env.creator, job.StatusPaid, 100, StatusPaid)

	rows, err := env.svc.PendingApprovals(ctx, env.creator)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].PaymentID)
	assert.Equal(t, "worker", rows[0].WorkerName)
	assert.Equal(t, "9876543210", rows[0].WorkerPhone)
	assert.Equal(t, "Clean the riverbank", rows[0].JobTitle)
	assert.InDelta(t, 300, rows[0].Amount, 0.001)

	all, err := env.svc.PendingApprovals(ctx, env.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
