// Package session owns the process-wide authentication state: the
// current user, its load-at-startup lifecycle, and the identity
// operations that orchestrate the credential and task stores.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/foxlist/internal/credentials"
	"github.com/dmitrijs2005/foxlist/internal/logging"
	"github.com/dmitrijs2005/foxlist/internal/models"
	"github.com/dmitrijs2005/foxlist/internal/tasks"
)

// ErrNoSession is returned by operations that require a signed-in
// user when there is none.
var ErrNoSession = errors.New("no user signed in")

// Subscriber receives the current user after every change; nil means
// signed out. Callbacks run synchronously on the mutating goroutine
// and must not call back into the Coordinator.
type Subscriber func(*models.User)

// Coordinator implements sign-in, sign-up, sign-out, profile update
// and account deletion over a credential store and a task store, and
// exposes the current user with change notifications.
type Coordinator struct {
	creds *credentials.Store
	tasks tasks.Store
	log   logging.Logger

	mu      sync.Mutex
	current *models.User
	loading bool
	nextSub int
	subs    map[int]Subscriber

	now func() time.Time
}

// NewCoordinator builds a Coordinator. The coordinator reports
// loading=true until Load has run once.
func NewCoordinator(creds *credentials.Store, taskStore tasks.Store, log logging.Logger) *Coordinator {
	return &Coordinator{
		creds:   creds,
		tasks:   taskStore,
		log:     log,
		loading: true,
		subs:    make(map[int]Subscriber),
		now:     time.Now,
	}
}

// Load restores the persisted session at process start. The loading
// flag clears whether or not a session was found or readable; a read
// failure leaves the user signed out and is returned for the caller
// to report.
func (c *Coordinator) Load(ctx context.Context) error {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	u, err := c.creds.SessionUser(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to load session", "error", err)
		return err
	}
	if u != nil {
		c.setCurrent(u)
	}
	return nil
}

// SignIn validates credentials, persists the session and claims any
// orphaned tasks for the signing-in user. On failure the current user
// is left untouched.
func (c *Coordinator) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	u, err := c.creds.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.completeSignIn(ctx, u)
}

// SignUp registers a new account and signs it in immediately; no
// second credential entry is required.
func (c *Coordinator) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: c.now().UTC().Format(time.RFC3339),
	}

	if err := c.creds.Register(ctx, u); err != nil {
		return nil, err
	}

	sanitized := u.Sanitized()
	return c.completeSignIn(ctx, &sanitized)
}

// completeSignIn persists the session record, reconciles orphaned
// tasks and publishes the new current user.
func (c *Coordinator) completeSignIn(ctx context.Context, u *models.User) (*models.User, error) {
	if err := c.creds.SetSessionUser(ctx, *u); err != nil {
		return nil, err
	}

	// Non-fatal: reconciliation is idempotent and reruns on the next
	// sign-in.
	if err := c.tasks.ReconcileOrphans(ctx, u.Email); err != nil {
		c.log.Warn(ctx, "failed to reconcile orphan tasks", "error", err)
	}

	c.setCurrent(u)
	c.log.Info(ctx, "user signed in", "email", u.Email)
	return u, nil
}

// SignOut clears the persisted session and the current user.
func (c *Coordinator) SignOut(ctx context.Context) error {
	if err := c.creds.ClearSessionUser(ctx); err != nil {
		return err
	}
	c.setCurrent(nil)
	c.log.Info(ctx, "user signed out")
	return nil
}

// UpdateProfile merges fields into the current user's registry record
// and refreshes the current user on success.
func (c *Coordinator) UpdateProfile(ctx context.Context, fields credentials.UpdateFields) (*models.User, error) {
	cur := c.CurrentUser()
	if cur == nil {
		return nil, ErrNoSession
	}

	updated, err := c.creds.UpdateUser(ctx, cur.ID, fields)
	if err != nil {
		return nil, err
	}

	c.setCurrent(updated)
	return updated, nil
}

// DeleteAccount removes the current user's tasks (owned and orphaned)
// first, then the user record and session. The ordering is part of
// the contract: the task cascade needs the account's email, and
// running it first pins down the state after a partial failure.
func (c *Coordinator) DeleteAccount(ctx context.Context) error {
	cur := c.CurrentUser()
	if cur == nil {
		return ErrNoSession
	}

	if err := c.tasks.DeleteByOwner(ctx, cur.Email); err != nil {
		return err
	}
	if err := c.creds.DeleteUser(ctx, cur.ID); err != nil {
		return err
	}

	c.setCurrent(nil)
	c.log.Info(ctx, "account deleted", "email", cur.Email)
	return nil
}

// CurrentUser returns a copy of the current user, or nil when signed
// out.
func (c *Coordinator) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	u := *c.current
	return &u
}

// Loading reports whether the initial session restore is still
// pending.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Subscribe registers fn to be called on every current-user change
// and returns an unsubscribe function.
func (c *Coordinator) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) setCurrent(u *models.User) {
	c.mu.Lock()
	c.current = u
	subs := make([]Subscriber, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}
