// Copyright 2025 Argus Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/argus-sec/argus/internal/console/core"
	"github.com/argus-sec/argus/internal/console/model"
)

// Config holds the directory admin API connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// RESTClient implements Gateway against the directory's admin REST API.
type RESTClient struct {
	client *resty.Client
}

var _ Gateway = (*RESTClient)(nil)

// NewRESTClient creates a directory client for the given endpoint.
func NewRESTClient(cfg Config) *RESTClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &RESTClient{client: client}
}

// Wire representations of the admin API resources. User attributes carry
// the console-owned fields (status, verification token, org link) as the
// directory stores them: string lists keyed by attribute name.
type orgRepr struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type userRepr struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	Email      string              `json:"email"`
	FirstName  string              `json:"firstName"`
	LastName   string              `json:"lastName"`
	Enabled    bool                `json:"enabled"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

type credentialRepr struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type createUserRepr struct {
	userRepr
	Credentials []credentialRepr `json:"credentials,omitempty"`
}

type statusUpdateRepr struct {
	Status  string `json:"status"`
	Enabled bool   `json:"enabled"`
}

type conflictRepr struct {
	Field   string `json:"field"`
	Message string `json:"errorMessage"`
}

const (
	attrStatus            = "status"
	attrVerificationToken = "verificationToken"
	attrOrgID             = "orgId"
)

func attrFirst(attrs map[string][]string, key string) string {
	if v, ok := attrs[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

func (r userRepr) toModel() *model.User {
	return &model.User{
		UserID:            r.ID,
		Username:          r.Username,
		Email:             r.Email,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Enabled:           r.Enabled,
		Status:            model.UserStatus(attrFirst(r.Attributes, attrStatus)),
		VerificationToken: attrFirst(r.Attributes, attrVerificationToken),
		OrgID:             attrFirst(r.Attributes, attrOrgID),
	}
}

func userToRepr(u *model.User) userRepr {
	attrs := map[string][]string{
		attrStatus: {string(u.Status)},
	}
	if u.VerificationToken != "" {
		attrs[attrVerificationToken] = []string{u.VerificationToken}
	}
	if u.OrgID != "" {
		attrs[attrOrgID] = []string{u.OrgID}
	}
	return userRepr{
		ID:         u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Enabled:    u.Enabled,
		Attributes: attrs,
	}
}

// wrap maps a transport error or non-2xx response into the core taxonomy.
func wrap(op, resource, id string, resp *resty.Response, err error) error {
	if err != nil {
		return &core.DependencyError{Op: op, Err: err}
	}
	switch {
	case !resp.IsError():
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return &core.NotFoundError{Resource: resource, ID: id}
	case resp.StatusCode() == http.StatusConflict:
		var c conflictRepr
		if jsonErr := json.Unmarshal(resp.Body(), &c); jsonErr == nil && c.Field != "" {
			return &core.ConflictError{Conflicts: []core.FieldConflict{{Field: c.Field, Message: c.Message}}}
		}
		return &core.ConflictError{Conflicts: []core.FieldConflict{{Field: resource, Message: "already exists"}}}
	default:
		return &core.DependencyError{
			Op:  op,
			Err: fmt.Errorf("directory returned status %d: %s", resp.StatusCode(), resp.Body()),
		}
	}
}

func (c *RESTClient) FindOrganizationByName(ctx context.Context, name string) (*model.Organization, error) {
	var orgs []orgRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"name": name, "exact": "true"}).
		SetResult(&orgs).
		Get("/admin/organizations")
	if wErr := wrap("directory.FindOrganizationByName", "organization", name, resp, err); wErr != nil {
		return nil, wErr
	}
	if len(orgs) == 0 {
		return nil, nil
	}
	return &model.Organization{OrgID: orgs[0].ID, Name: orgs[0].Name}, nil
}

func (c *RESTClient) CreateOrganization(ctx context.Context, name string) (*model.Organization, error) {
	var created orgRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(orgRepr{Name: name}).
		SetResult(&created).
		Post("/admin/organizations")
	if wErr := wrap("directory.CreateOrganization", "organization", name, resp, err); wErr != nil {
		return nil, wErr
	}
	return &model.Organization{OrgID: created.ID, Name: created.Name}, nil
}

func (c *RESTClient) DeleteOrganization(ctx context.Context, orgID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/admin/organizations/" + orgID)
	return wrap("directory.DeleteOrganization", "organization", orgID, resp, err)
}

func (c *RESTClient) FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]*model.User, error) {
	var reprs []userRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"username": username, "email": email}).
		SetResult(&reprs).
		Get("/admin/users")
	if wErr := wrap("directory.FindUsersByUsernameOrEmail", "user", username, resp, err); wErr != nil {
		return nil, wErr
	}
	users := make([]*model.User, 0, len(reprs))
	for _, r := range reprs {
		users = append(users, r.toModel())
	}
	return users, nil
}

func (c *RESTClient) CreateUser(ctx context.Context, user *model.User, password string) (*model.User, error) {
	body := createUserRepr{
		userRepr:    userToRepr(user),
		Credentials: []credentialRepr{{Type: "password", Value: password}},
	}
	var created userRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&created).
		Post("/admin/users")
	if wErr := wrap("directory.CreateUser", "user", user.Username, resp, err); wErr != nil {
		return nil, wErr
	}
	return created.toModel(), nil
}

func (c *RESTClient) DeleteUser(ctx context.Context, userID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/admin/users/" + userID)
	return wrap("directory.DeleteUser", "user", userID, resp, err)
}

func (c *RESTClient) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var repr userRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&repr).
		Get("/admin/users/" + userID)
	if wErr := wrap("directory.GetUser", "user", userID, resp, err); wErr != nil {
		return nil, wErr
	}
	return repr.toModel(), nil
}

func (c *RESTClient) ListUsers(ctx context.Context, page model.Page) ([]*model.User, int, error) {
	page = page.Normalize()
	var reprs []userRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":     strconv.Itoa(page.Page),
			"pageSize": strconv.Itoa(page.PageSize),
		}).
		SetResult(&reprs).
		Get("/admin/users")
	if wErr := wrap("directory.ListUsers", "user", "", resp, err); wErr != nil {
		return nil, 0, wErr
	}
	total := len(reprs)
	if h := resp.Header().Get("X-Total-Count"); h != "" {
		if n, convErr := strconv.Atoi(h); convErr == nil {
			total = n
		}
	}
	users := make([]*model.User, 0, len(reprs))
	for _, r := range reprs {
		users = append(users, r.toModel())
	}
	return users, total, nil
}

func (c *RESTClient) FindUsersByStatus(ctx context.Context, status model.UserStatus) ([]*model.User, error) {
	var reprs []userRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("status", string(status)).
		SetResult(&reprs).
		Get("/admin/users")
	if wErr := wrap("directory.FindUsersByStatus", "user", "", resp, err); wErr != nil {
		return nil, wErr
	}
	users := make([]*model.User, 0, len(reprs))
	for _, r := range reprs {
		users = append(users, r.toModel())
	}
	return users, nil
}

func (c *RESTClient) UpdateUserStatus(ctx context.Context, userID string, status model.UserStatus, enabled bool) error {
	if !status.Valid() {
		return &core.ValidationError{Field: "status", Message: fmt.Sprintf("unknown user status %q", status)}
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(statusUpdateRepr{Status: string(status), Enabled: enabled}).
		Put("/admin/users/" + userID + "/status")
	return wrap("directory.UpdateUserStatus", "user", userID, resp, err)
}

func (c *RESTClient) AssignUserToOrganization(ctx context.Context, orgID, userID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Put("/admin/organizations/" + orgID + "/members/" + userID)
	return wrap("directory.AssignUserToOrganization", "organization", orgID, resp, err)
}

func (c *RESTClient) GetOrganizationsByIDs(ctx context.Context, orgIDs []string) (map[string]*model.Organization, error) {
	result := make(map[string]*model.Organization, len(orgIDs))
	if len(orgIDs) == 0 {
		return result, nil
	}
	var orgs []orgRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(orgIDs, ",")).
		SetResult(&orgs).
		Get("/admin/organizations")
	if wErr := wrap("directory.GetOrganizationsByIDs", "organization", "", resp, err); wErr != nil {
		return nil, wErr
	}
	for _, o := range orgs {
		result[o.ID] = &model.Organization{OrgID: o.ID, Name: o.Name}
	}
	return result, nil
}

func (c *RESTClient) FindUserByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	var reprs []userRepr
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("verificationToken", token).
		SetResult(&reprs).
		Get("/admin/users")
	if wErr := wrap("directory.FindUserByVerificationToken", "user", "", resp, err); wErr != nil {
		return nil, wErr
	}
	if len(reprs) == 0 {
		return nil, nil
	}
	return reprs[0].toModel(), nil
}

func (c *RESTClient) ClearVerificationToken(ctx context.Context, userID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/admin/users/" + userID + "/verification-token")
	return wrap("directory.ClearVerificationToken", "user", userID, resp, err)
}
