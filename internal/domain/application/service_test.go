package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/events"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/pagination"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Emit(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db      *gorm.DB
	svc     *Service
	events  *recorder
	creator auth.Identity
	other   auth.Identity
	workerA auth.Identity
	workerB auth.Identity
	admin   auth.Identity
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:application_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &job.Job{}, &Application{}))

	env := &testEnv{db: db, events: &recorder{}}
	mk := func(name string, role auth.Role) auth.Identity {
		u := &auth.User{Email: name + "@example.com", Name: name, PhoneNumber: "9876543210", PasswordHash: "x", Role: role}
		require.NoError(t, db.Create(u).Error)
		return auth.Identity{UserID: u.ID, Role: role}
	}
	env.creator = mk("creator", auth.RoleCreator)
	env.other = mk("other", auth.RoleCreator)
	env.workerA = mk("worker-a", auth.RoleWorker)
	env.workerB = mk("worker-b", auth.RoleWorker)
	env.admin = mk("admin", auth.RoleAdmin)

	env.svc = NewService(db, env.events, nil)
	return env
}

func (e *testEnv) newJob(t *testing.T, status job.Status) *job.Job {
	t.Helper()
	j := &job.Job{
		Title:        "Plant 50 trees",
		Category:     job.CategoryTreePlanting,
		Status:       status,
		RewardAmount: 500,
		CreatedBy:    e.creator.UserID,
	}
	require.NoError(t, e.db.Create(j).Error)
	return j
}

func (e *testEnv) reloadJob(t *testing.T, id string) job.Job {
	t.Helper()
	var j job.Job
	require.NoError(t, e.db.First(&j, "id = ?", id).Error)
	return j
}

func TestApply(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	j := env.newJob(t, job.StatusOpen)

	app, err := env.svc.Apply(ctx, env.workerA, j.ID, ApplyRequest{Message: "  I live nearby "})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, "I live nearby", app.Message)

	_, err = env.svc.Apply(ctx, env.workerA, j.ID, ApplyRequest{})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// any authenticated role may apply
	_, err = env.svc.Apply(ctx, env.other, j.ID, ApplyRequest{})
	assert.NoError(t, err)

	_, err = env.svc.Apply(ctx, env.workerA, "3f1c2a4e-0000-4000-8000-000000000000", ApplyRequest{})
	assert.ErrorIs(t, err, job.ErrJobNotFound)

	assert.Equal(t, []events.Type{events.ApplicationCreated, events.ApplicationCreated}, env.events.types())
}

func TestApply_JobNotOpen(t *testing.T) {
	env := setupTestEnv(t)
	for _, status := range []job.Status{job.StatusAssigned, job.StatusInProgress, job.StatusPaid} {
		j := env.newJob(t, status)
		_, err := env.svc.Apply(context.Background(), env.workerA, j.ID, ApplyRequest{})
		assert.ErrorIs(t, err, ErrJobNotOpen, string(status))
	}
}

func TestAccept_AssignsJobAtomically(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	j := env.newJob(t, job.StatusOpen)

	appA, err := env.svc.Apply(ctx, env.workerA, j.ID, ApplyRequest{})
	require.NoError(t, err)
	appB, err := env.svc.Apply(ctx, env.workerB, j.ID, ApplyRequest{})
	require.NoError(t, err)

	_, err = env.svc.Accept(ctx, env.other, appA.ID)
	assert.ErrorIs(t, err, ErrNotJobOwner)
	_, err = env.svc.Accept(ctx, env.workerB, appA.ID)
	assert.ErrorIs(t, err, ErrNotJobOwner)

	decision, err := env.svc.Accept(ctx, env.creator, appA.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, decision.Status)
	assert.Equal(t, job.StatusAssigned, decision.JobStatus)

	reloaded := env.reloadJob(t, j.ID)
	assert.Equal(t, job.StatusAssigned, reloaded.Status)
	require.NotNil(t, reloaded.AssignedTo)
	assert.Equal(t, env.workerA.UserID, *reloaded.AssignedTo)

	// the second bid loses: the job is no longer open
	_, err = env.svc.Accept(ctx, env.admin, appB.ID)
	assert.ErrorIs(t, err, ErrJobNotOpen)

	var b Application
	require.NoError(t, env.db.First(&b, "id = ?", appB.ID).Error)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, env.workerA.UserID, *env.reloadJob(t, j.ID).AssignedTo)
}

func TestAccept_UnknownApplication(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.svc.Accept(context.Background(), env.creator, "3f1c2a4e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestReject(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	j := env.newJob(t, job.StatusOpen)
	app, err := env.svc.Apply(ctx, env.workerA, j.ID, ApplyRequest{})
	require.NoError(t, err)

	_, err = env.svc.Reject(ctx, env.other, app.ID)
	assert.ErrorIs(t, err, ErrNotJobOwner)

	decision, err := env.svc.Reject(ctx, env.creator, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, decision.Status)
	assert.Equal(t, job.StatusOpen, env.reloadJob(t, j.ID).Status)

	_, err = env.svc.Reject(ctx, env.creator, app.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	_, err = env.svc.Accept(ctx, env.creator, app.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestListForJob(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	j := env.newJob(t, job.StatusOpen)
	_, err := env.svc.Apply(ctx, env.workerA, j.ID, ApplyRequest{Message: "pick me"})
	require.NoError(t, err)
	appB, err := env.svc.Apply(ctx, env.workerB, j.ID, ApplyRequest{})
	require.NoError(t, err)
	_, err = env.svc.Reject(ctx, env.creator, appB.ID)
	require.NoError(t, err)

	_, err = env.svc.ListForJob(ctx, env.workerA, j.ID)
	assert.ErrorIs(t, err, ErrNotJobOwner)

	list, err := env.svc.ListForJob(ctx, env.creator, j.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byWorker := map[string]Applicant{}
	for _, a := range list {
		byWorker[a.WorkerID] = a
	}
	a := byWorker[env.workerA.UserID]
	require.NotNil(t, a.Worker)
	assert.Equal(t, "worker-a", a.Worker.Name)
	assert.Equal(t, "9876543210", a.Worker.PhoneNumber)
	assert.Nil(t, a.RespondedAt)
	assert.NotNil(t, byWorker[env.workerB.UserID].RespondedAt)
}

func TestListMine_Filters(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	pending := env.newJob(t, job.StatusOpen)
	ongoing := env.newJob(t, job.StatusOpen)
	done := env.newJob(t, job.StatusOpen)

	for _, j := range []*job.Job{pending, ongoing, done} {
		_, err := env.svc.Apply(ctx, env.workerA, j.ID, ApplyRequest{})
		require.NoError(t, err)
	}
	for _, j := range []*job.Job{ongoing, done} {
		var app Application
		require.NoError(t, env.db.First(&app, "job_id = ? AND worker_id = ?", j.ID, env.workerA.UserID).Error)
		_, err := env.svc.Accept(ctx, env.creator, app.ID)
		require.NoError(t, err)
	}
	require.NoError(t, env.db.Model(&job.Job{}).Where("id = ?", done.ID).Update("status", job.StatusPaid).Error)

	p := pagination.New("1", "10")
	cases := map[Filter]string{
		FilterApplied:   pending.ID,
		FilterOngoing:   ongoing.ID,
		FilterCompleted: done.ID,
	}
	for filter, want := range cases {
		items, total, err := env.svc.ListMine(ctx, env.workerA, filter, p)
		require.NoError(t, err, filter)
		assert.EqualValues(t, 1, total, filter)
		require.Len(t, items, 1, filter)
		assert.Equal(t, want, items[0].JobID, filter)
		require.NotNil(t, items[0].JobDetails, filter)
		assert.Equal(t, want, items[0].JobDetails.ID, filter)
	}

	items, total, err := env.svc.ListMine(ctx, env.workerA, FilterAll, pagination.New("1", "2"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)

	_, total, err = env.svc.ListMine(ctx, env.workerB, FilterAll, p)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = env.svc.ListMine(ctx, env.workerA, "archived", p)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
