package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/foxlist/internal/credentials"
	"github.com/dmitrijs2005/foxlist/internal/kvstore"
	"github.com/dmitrijs2005/foxlist/internal/logging"
	"github.com/dmitrijs2005/foxlist/internal/models"
	"github.com/dmitrijs2005/foxlist/internal/tasks"
)

type fixture struct {
	coord *Coordinator
	creds *credentials.Store
	tasks tasks.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	kv, err := kvstore.NewFileStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	creds := credentials.NewStore(kv, nil)

	store := tasks.NewFileStore(filepath.Join(dir, "tasks.json"))
	require.NoError(t, store.Init(context.Background()))

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &fixture{
		coord: NewCoordinator(creds, store, log),
		creds: creds,
		tasks: store,
	}
}

func TestLoad_NoStoredSession(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.coord.Loading())
	require.NoError(t, f.coord.Load(context.Background()))
	assert.False(t, f.coord.Loading())
	assert.Nil(t, f.coord.CurrentUser())
}

func TestLoad_RestoresStoredSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.creds.SetSessionUser(ctx, models.User{ID: "1", Name: "Maria", Email: "maria@x.com"}))

	require.NoError(t, f.coord.Load(ctx))
	u := f.coord.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "maria@x.com", u.Email)
}

func TestSignUp_AutoLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.CreatedAt)
	assert.Empty(t, u.Password)

	// Signed in immediately, session persisted.
	cur := f.coord.CurrentUser()
	require.NotNil(t, cur)
	assert.Equal(t, "maria@x.com", cur.Email)

	sess, err := f.creds.SessionUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, u.ID, sess.ID)
}

func TestSignUp_DuplicateEmailLeavesStateIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, f.coord.SignOut(ctx))

	_, err = f.coord.SignUp(ctx, "Other", "maria@x.com", "other")
	assert.ErrorIs(t, err, credentials.ErrDuplicateEmail)
	assert.Nil(t, f.coord.CurrentUser())
}

func TestSignIn_InvalidCredentialsKeepState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)

	_, err = f.coord.SignIn(ctx, "maria@x.com", "wrong")
	assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)

	// The failed attempt did not sign the previous user out.
	cur := f.coord.CurrentUser()
	require.NotNil(t, cur)
	assert.Equal(t, "maria@x.com", cur.Email)
}

func TestSignIn_ClaimsOrphanedTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, f.coord.SignOut(ctx))

	// A legacy task with no owner, surfaced while signed out.
	_, err = f.tasks.Create(ctx, tasks.CreateParams{Title: "legada", Priority: models.PriorityLow})
	require.NoError(t, err)

	_, err = f.coord.SignIn(ctx, "maria@x.com", "s3cret")
	require.NoError(t, err)

	all, err := f.tasks.GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "maria@x.com", all[0].Owner())
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, f.coord.SignOut(ctx))
	assert.Nil(t, f.coord.CurrentUser())

	sess, err := f.creds.SessionUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)

	name := "Maria Silva"
	updated, err := f.coord.UpdateProfile(ctx, credentials.UpdateFields{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", updated.Name)

	cur := f.coord.CurrentUser()
	require.NotNil(t, cur)
	assert.Equal(t, "Maria Silva", cur.Name)
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	f := newFixture(t)

	name := "x"
	_, err := f.coord.UpdateProfile(context.Background(), credentials.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDeleteAccount_CascadesTasksFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)

	_, err = f.tasks.Create(ctx, tasks.CreateParams{Title: "minha", Priority: models.PriorityLow, OwnerEmail: &u.Email})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, tasks.CreateParams{Title: "órfã", Priority: models.PriorityLow})
	require.NoError(t, err)
	other := "joao@x.com"
	_, err = f.tasks.Create(ctx, tasks.CreateParams{Title: "alheia", Priority: models.PriorityLow, OwnerEmail: &other})
	require.NoError(t, err)

	require.NoError(t, f.coord.DeleteAccount(ctx))

	// Owned and orphaned tasks are gone; other users' tasks survive.
	all, err := f.tasks.GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alheia", all[0].Title)

	assert.Nil(t, f.coord.CurrentUser())
	_, err = f.coord.SignIn(ctx, "maria@x.com", "s3cret")
	assert.ErrorIs(t, err, credentials.ErrInvalidCredentials)
}

func TestSubscribe_EmitsOnEveryChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var events []string
	unsubscribe := f.coord.Subscribe(func(u *models.User) {
		if u == nil {
			events = append(events, "signed-out")
		} else {
			events = append(events, u.Email)
		}
	})

	_, err := f.coord.SignUp(ctx, "Maria", "maria@x.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, f.coord.SignOut(ctx))

	unsubscribe()
	_, err = f.coord.SignIn(ctx, "maria@x.com", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, []string{"maria@x.com", "signed-out"}, events)
}

// The two-user lifecycle: tasks stay scoped to their owner, and
// deleting one account never touches another user's data.
func TestTwoUserLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u1, err := f.coord.SignUp(ctx, "Maria", "u1@x.com", "pw1")
	require.NoError(t, err)

	for _, title := range []string{"tarefa um", "tarefa dois"} {
		_, err = f.tasks.Create(ctx, tasks.CreateParams{Title: title, Priority: models.PriorityMedium, OwnerEmail: &u1.Email})
		require.NoError(t, err)
	}
	require.NoError(t, f.coord.SignOut(ctx))

	u2, err := f.coord.SignUp(ctx, "João", "u2@x.com", "pw2")
	require.NoError(t, err)

	// U1's tasks have a distinct non-null owner: U2 sees none of them.
	forU2, err := f.tasks.GetAll(ctx, u2.Email)
	require.NoError(t, err)
	assert.Empty(t, forU2)

	// Back as U1: delete the account, tasks go with it.
	require.NoError(t, f.coord.SignOut(ctx))
	_, err = f.coord.SignIn(ctx, "u1@x.com", "pw1")
	require.NoError(t, err)
	require.NoError(t, f.coord.DeleteAccount(ctx))

	all, err := f.tasks.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	// U2's account is unaffected.
	_, err = f.coord.SignIn(ctx, "u2@x.com", "pw2")
	require.NoError(t, err)
}
