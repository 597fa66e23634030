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

// Package directory abstracts the external identity directory that stores
// organizations, users and their membership links.
package directory

import (
	"context"

	"github.com/argus-sec/argus/internal/console/model"
)

// Gateway is the identity directory boundary. Implementations translate
// directory failures into the core error taxonomy; native transport errors
// never escape through this interface.
//
// Find* methods treat absence as a normal outcome and return nil (or an
// empty slice) without an error. Get* methods return NotFoundError.
type Gateway interface {
	// FindOrganizationByName returns the organization with the given name,
	// or nil when none exists.
	FindOrganizationByName(ctx context.Context, name string) (*model.Organization, error)

	// CreateOrganization creates an organization; the directory assigns the id.
	CreateOrganization(ctx context.Context, name string) (*model.Organization, error)

	// DeleteOrganization removes an organization. Used only as rollback
	// compensation.
	DeleteOrganization(ctx context.Context, orgID string) error

	// FindUsersByUsernameOrEmail returns all users matching either the
	// username or the email.
	FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]*model.User, error)

	// CreateUser creates a user with the given profile, attributes and
	// password credential; the directory assigns the id.
	CreateUser(ctx context.Context, user *model.User, password string) (*model.User, error)

	// DeleteUser removes a user. Used only as rollback compensation.
	DeleteUser(ctx context.Context, userID string) error

	// GetUser returns a user by id.
	GetUser(ctx context.Context, userID string) (*model.User, error)

	// ListUsers returns one page of users plus the total count.
	ListUsers(ctx context.Context, page model.Page) ([]*model.User, int, error)

	// FindUsersByStatus returns all users currently in the given status.
	FindUsersByStatus(ctx context.Context, status model.UserStatus) ([]*model.User, error)

	// UpdateUserStatus sets a user's approval status and enabled flag in a
	// single directory update.
	UpdateUserStatus(ctx context.Context, userID string, status model.UserStatus, enabled bool) error

	// AssignUserToOrganization links a user to an organization as its admin
	// member.
	AssignUserToOrganization(ctx context.Context, orgID, userID string) error

	// GetOrganizationsByIDs batch-resolves organizations, keyed by id.
	// Missing ids are absent from the result rather than an error.
	GetOrganizationsByIDs(ctx context.Context, orgIDs []string) (map[string]*model.Organization, error)

	// FindUserByVerificationToken returns the user holding the given
	// single-use verification token, or nil when no user does.
	FindUserByVerificationToken(ctx context.Context, token string) (*model.User, error)

	// ClearVerificationToken clears a user's verification token after a
	// successful email verification.
	ClearVerificationToken(ctx context.Context, userID string) error
}
