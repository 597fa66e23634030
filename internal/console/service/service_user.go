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

package service

import (
	"context"

	"github.com/argus-sec/argus/internal/console/core"
	"github.com/argus-sec/argus/internal/console/directory"
	"github.com/argus-sec/argus/internal/console/model"
	"github.com/argus-sec/argus/internal/console/notify"
	"github.com/argus-sec/argus/pkg/log"
)

// UserService implements the approval state machine and the read
// projections that join users with their organization.
type UserService struct {
	gw    directory.Gateway
	queue notify.Enqueuer
}

// NewUserService wires the user operations to the directory gateway and
// the notification queue.
func NewUserService(gw directory.Gateway, queue notify.Enqueuer) *UserService {
	return &UserService{gw: gw, queue: queue}
}

// ApproveUser transitions a pending user to approved and enables the
// account. Approving a non-pending user is a StateError; approved and
// rejected are terminal states.
func (s *UserService) ApproveUser(ctx context.Context, userID string) error {
	return s.setStatus(ctx, userID, model.UserStatusApproved, true)
}

// RejectUser transitions a pending user to rejected and disables the
// account.
func (s *UserService) RejectUser(ctx context.Context, userID string) error {
	return s.setStatus(ctx, userID, model.UserStatusRejected, false)
}

// setStatus enforces the pending-only precondition, applies the status and
// enabled flag in one directory update, then queues a best-effort status
// email. A failed enqueue does not fail the approval.
func (s *UserService) setStatus(ctx context.Context, userID string, status model.UserStatus, enabled bool) error {
	user, err := s.gw.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Status != model.UserStatusPending {
		return &core.StateError{Message: "user is not pending approval"}
	}

	if err := s.gw.UpdateUserStatus(ctx, userID, status, enabled); err != nil {
		return err
	}
	log.Infow("user status updated", "userId", userID, "status", status, "enabled", enabled)

	orgName := ""
	if user.OrgID != "" {
		if orgs, orgErr := s.gw.GetOrganizationsByIDs(ctx, []string{user.OrgID}); orgErr == nil {
			if org, ok := orgs[user.OrgID]; ok {
				orgName = org.Name
			}
		}
	}

	_, err = s.queue.Enqueue(notify.EmailOptions{
		To:       user.Email,
		Template: notify.TemplateStatusUpdate,
		Data: map[string]any{
			"firstName": user.FirstName,
			"orgName":   orgName,
			"status":    string(status),
		},
	})
	if err != nil {
		log.Errorw("failed to enqueue status update email", "userId", userID, "error", err)
	}
	return nil
}

// GetPendingUsers returns every user awaiting approval.
func (s *UserService) GetPendingUsers(ctx context.Context) ([]*model.User, error) {
	return s.gw.FindUsersByStatus(ctx, model.UserStatusPending)
}

// GetUser returns a single user joined with its organization name.
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.UserWithOrg, error) {
	user, err := s.gw.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined := s.joinOrgs(ctx, []*model.User{user})
	return &joined[0], nil
}

// GetUsersWithOrgInfo returns one page of users with organization names
// resolved through a single batch lookup, keeping directory round-trips at
// O(1) per page.
func (s *UserService) GetUsersWithOrgInfo(ctx context.Context, page model.Page) (*model.UserPage, error) {
	users, total, err := s.gw.ListUsers(ctx, page)
	if err != nil {
		return nil, err
	}
	return &model.UserPage{Users: s.joinOrgs(ctx, users), Total: total}, nil
}

// joinOrgs batch-resolves the distinct organization ids referenced by the
// given users and maps names back. A dangling org reference leaves OrgName
// empty instead of failing the projection.
func (s *UserService) joinOrgs(ctx context.Context, users []*model.User) []model.UserWithOrg {
	idSet := make(map[string]struct{})
	for _, u := range users {
		if u.OrgID != "" {
			idSet[u.OrgID] = struct{}{}
		}
	}
	orgIDs := make([]string, 0, len(idSet))
	for oid := range idSet {
		orgIDs = append(orgIDs, oid)
	}

	orgs := map[string]*model.Organization{}
	if len(orgIDs) > 0 {
		resolved, err := s.gw.GetOrganizationsByIDs(ctx, orgIDs)
		if err != nil {
			log.Warnw("organization batch lookup failed", "orgIds", orgIDs, "error", err)
		} else {
			orgs = resolved
		}
	}

	out := make([]model.UserWithOrg, 0, len(users))
	for _, u := range users {
		row := model.UserWithOrg{User: *u}
		if org, ok := orgs[u.OrgID]; ok {
			row.OrgName = org.Name
		}
		out = append(out, row)
	}
	return out
}

// VerifyEmail consumes a single-use verification token: it resolves the
// owning user and clears the token. An unknown or already-used token is a
// NotFoundError.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return &core.ValidationError{Field: "token", Message: "verification token is required"}
	}
	user, err := s.gw.FindUserByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return &core.NotFoundError{Resource: "verification token"}
	}
	if err := s.gw.ClearVerificationToken(ctx, user.UserID); err != nil {
		return err
	}
	log.Infow("email verified", "userId", user.UserID)
	return nil
}
