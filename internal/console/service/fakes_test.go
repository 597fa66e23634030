package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/argus-sec/argus/internal/console/core"
	"github.com/argus-sec/argus/internal/console/directory"
	"github.com/argus-sec/argus/internal/console/model"
	"github.com/argus-sec/argus/internal/console/notify"
)

// fakeGateway is an in-memory identity directory with injectable failures.
type fakeGateway struct {
	mu     sync.Mutex
	orgs   map[string]*model.Organization // by id
	users  map[string]*model.User         // by id
	nextID int

	failCreateOrg     error
	failCreateUser    error
	failAssign        error
	failUpdateStatus  error
	failDeleteOrg     error
	failDeleteUser    error
	memberships       map[string]string // userID -> orgID membership links
	statusUpdateCalls int
}

var _ directory.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		orgs:        make(map[string]*model.Organization),
		users:       make(map[string]*model.User),
		memberships: make(map[string]string),
	}
}

func (g *fakeGateway) genID(prefix string) string {
	g.nextID++
	return fmt.Sprintf("%s-%d", prefix, g.nextID)
}

func (g *fakeGateway) FindOrganizationByName(_ context.Context, name string) (*model.Organization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, o := range g.orgs {
		if o.Name == name {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) CreateOrganization(_ context.Context, name string) (*model.Organization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreateOrg != nil {
		return nil, g.failCreateOrg
	}
	for _, o := range g.orgs {
		if o.Name == name {
			return nil, &core.ConflictError{Conflicts: []core.FieldConflict{{Field: "orgName", Message: "already exists"}}}
		}
	}
	org := &model.Organization{OrgID: g.genID("org"), Name: name}
	g.orgs[org.OrgID] = org
	clone := *org
	return &clone, nil
}

func (g *fakeGateway) DeleteOrganization(_ context.Context, orgID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failDeleteOrg != nil {
		return g.failDeleteOrg
	}
	if _, ok := g.orgs[orgID]; !ok {
		return &core.NotFoundError{Resource: "organization", ID: orgID}
	}
	delete(g.orgs, orgID)
	return nil
}

func (g *fakeGateway) FindUsersByUsernameOrEmail(_ context.Context, username, email string) ([]*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*model.User
	for _, u := range g.users {
		if u.Username == username || u.Email == email {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (g *fakeGateway) CreateUser(_ context.Context, user *model.User, _ string) (*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreateUser != nil {
		return nil, g.failCreateUser
	}
	clone := *user
	clone.UserID = g.genID("user")
	g.users[clone.UserID] = &clone
	result := clone
	return &result, nil
}

func (g *fakeGateway) DeleteUser(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failDeleteUser != nil {
		return g.failDeleteUser
	}
	if _, ok := g.users[userID]; !ok {
		return &core.NotFoundError{Resource: "user", ID: userID}
	}
	delete(g.users, userID)
	return nil
}

func (g *fakeGateway) GetUser(_ context.Context, userID string) (*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		return nil, &core.NotFoundError{Resource: "user", ID: userID}
	}
	clone := *u
	return &clone, nil
}

func (g *fakeGateway) ListUsers(_ context.Context, page model.Page) ([]*model.User, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var all []*model.User
	for _, u := range g.users {
		clone := *u
		all = append(all, &clone)
	}
	return all, len(all), nil
}

func (g *fakeGateway) FindUsersByStatus(_ context.Context, status model.UserStatus) ([]*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*model.User
	for _, u := range g.users {
		if u.Status == status {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (g *fakeGateway) UpdateUserStatus(_ context.Context, userID string, status model.UserStatus, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusUpdateCalls++
	if g.failUpdateStatus != nil {
		return g.failUpdateStatus
	}
	u, ok := g.users[userID]
	if !ok {
		return &core.NotFoundError{Resource: "user", ID: userID}
	}
	u.Status = status
	u.Enabled = enabled
	return nil
}

func (g *fakeGateway) AssignUserToOrganization(_ context.Context, orgID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAssign != nil {
		return g.failAssign
	}
	g.memberships[userID] = orgID
	return nil
}

func (g *fakeGateway) GetOrganizationsByIDs(_ context.Context, orgIDs []string) (map[string]*model.Organization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]*model.Organization, len(orgIDs))
	for _, oid := range orgIDs {
		if o, ok := g.orgs[oid]; ok {
			clone := *o
			out[oid] = &clone
		}
	}
	return out, nil
}

func (g *fakeGateway) FindUserByVerificationToken(_ context.Context, token string) (*model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range g.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) ClearVerificationToken(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		return &core.NotFoundError{Resource: "user", ID: userID}
	}
	u.VerificationToken = ""
	return nil
}

func (g *fakeGateway) orgCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.orgs)
}

func (g *fakeGateway) userCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.users)
}

// fakeEnqueuer records enqueued email options.
type fakeEnqueuer struct {
	mu      sync.Mutex
	emails  []notify.EmailOptions
	failErr error
	nextID  int
}

var _ notify.Enqueuer = (*fakeEnqueuer)(nil)

func (q *fakeEnqueuer) Enqueue(opts notify.EmailOptions) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failErr != nil {
		return "", q.failErr
	}
	q.emails = append(q.emails, opts)
	q.nextID++
	return fmt.Sprintf("task-%d", q.nextID), nil
}

func (q *fakeEnqueuer) sent() []notify.EmailOptions {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]notify.EmailOptions, len(q.emails))
	copy(out, q.emails)
	return out
}
