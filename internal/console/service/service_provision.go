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

// Package service implements the administrative operations behind the
// console: tenant provisioning with compensating rollback, the user
// approval state machine and the user/organization read projections.
package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/argus-sec/argus/internal/console/core"
	"github.com/argus-sec/argus/internal/console/directory"
	"github.com/argus-sec/argus/internal/console/model"
	"github.com/argus-sec/argus/internal/console/notify"
	"github.com/argus-sec/argus/pkg/id"
	"github.com/argus-sec/argus/pkg/log"
)

const minPasswordLen = 8

// local@domain, nothing fancier; the directory applies its own policy.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// ProvisionService creates tenants: an organization and its admin user in
// the identity directory, linked as one logical transaction with
// compensating deletes on partial failure.
type ProvisionService struct {
	gw         directory.Gateway
	queue      notify.Enqueuer
	adminEmail string
	consoleURL string
}

// NewProvisionService wires the orchestrator to the directory gateway and
// the notification queue. adminEmail receives signup notices; consoleURL is
// the base for verification links.
func NewProvisionService(gw directory.Gateway, queue notify.Enqueuer, adminEmail, consoleURL string) *ProvisionService {
	return &ProvisionService{
		gw:         gw,
		queue:      queue,
		adminEmail: adminEmail,
		consoleURL: strings.TrimRight(consoleURL, "/"),
	}
}

// compensation is one undo step of the provisioning saga, pushed after its
// forward step succeeds and run in reverse order on a later failure.
type compensation struct {
	name string
	fn   func(context.Context) error
}

// CreateOrganizationAndUser validates the signup, collects every
// field-level conflict, then creates the organization, the disabled
// pending admin user and the membership link in that order. A failure at
// any write step rolls back what was already created before the error is
// surfaced. Two emails are enqueued on success, fire-and-forget.
//
// The operation is not idempotent: repeating a successful signup fails at
// conflict detection.
func (s *ProvisionService) CreateOrganizationAndUser(ctx context.Context, req model.SignupRequest) (*model.ProvisionResult, error) {
	if err := validateSignup(&req); err != nil {
		return nil, err
	}

	if err := s.detectConflicts(ctx, req); err != nil {
		return nil, err
	}

	// Write phase. The duplicate check above is best-effort, not a lock: a
	// concurrent signup racing for the same name surfaces here as a
	// directory conflict and takes the same rollback path.
	corrID := id.ShortID()
	var comps []compensation

	org, err := s.gw.CreateOrganization(ctx, req.OrgName)
	if err != nil {
		log.Errorw("organization creation failed", "op", corrID, "orgName", req.OrgName, "error", err)
		return nil, err
	}
	comps = append(comps, compensation{
		name: "delete organization",
		fn:   func(ctx context.Context) error { return s.gw.DeleteOrganization(ctx, org.OrgID) },
	})

	user, err := s.gw.CreateUser(ctx, &model.User{
		Username:          req.Username,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Enabled:           false,
		Status:            model.UserStatusPending,
		VerificationToken: id.UUID(),
		OrgID:             org.OrgID,
	}, req.Password)
	if err != nil {
		log.Errorw("user creation failed, rolling back", "op", corrID, "username", req.Username, "error", err)
		s.rollback(ctx, corrID, comps)
		return nil, err
	}
	comps = append(comps, compensation{
		name: "delete user",
		fn:   func(ctx context.Context) error { return s.gw.DeleteUser(ctx, user.UserID) },
	})

	if err := s.gw.AssignUserToOrganization(ctx, org.OrgID, user.UserID); err != nil {
		log.Errorw("membership link failed, rolling back", "op", corrID, "orgId", org.OrgID, "userId", user.UserID, "error", err)
		s.rollback(ctx, corrID, comps)
		return nil, err
	}

	s.enqueueSignupEmails(org, user)

	log.Infow("tenant provisioned", "op", corrID, "orgId", org.OrgID, "orgName", org.Name, "userId", user.UserID)
	return &model.ProvisionResult{Organization: org, User: user}, nil
}

// validateSignup checks the request before any directory call.
func validateSignup(req *model.SignupRequest) error {
	req.OrgName = strings.TrimSpace(req.OrgName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.OrgName == "" {
		return &core.ValidationError{Field: "orgName", Message: "organization name is required"}
	}
	if n := utf8.RuneCountInString(req.OrgName); n < model.OrgNameMinLen || n > model.OrgNameMaxLen {
		return &core.ValidationError{Field: "orgName", Message: "organization name must be 3-63 characters"}
	}
	if req.Username == "" {
		return &core.ValidationError{Field: "username", Message: "username is required"}
	}
	if !emailPattern.MatchString(req.Email) {
		return &core.ValidationError{Field: "email", Message: "email address is malformed"}
	}
	if len(req.Password) < minPasswordLen {
		return &core.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// detectConflicts queries the directory for an existing organization and
// an existing user identity. Both lookups complete before deciding, and
// every conflict found is collected so callers can render all of them.
func (s *ProvisionService) detectConflicts(ctx context.Context, req model.SignupRequest) error {
	existingOrg, err := s.gw.FindOrganizationByName(ctx, req.OrgName)
	if err != nil {
		return err
	}
	existingUsers, err := s.gw.FindUsersByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return err
	}

	var conflicts []core.FieldConflict
	if existingOrg != nil {
		conflicts = append(conflicts, core.FieldConflict{
			Field:   "orgName",
			Message: "organization name already exists",
		})
	}
	usernameTaken, emailTaken := false, false
	for _, u := range existingUsers {
		if u.Username == req.Username {
			usernameTaken = true
		}
		if u.Email == req.Email {
			emailTaken = true
		}
	}
	if usernameTaken {
		conflicts = append(conflicts, core.FieldConflict{Field: "username", Message: "username already in use"})
	}
	if emailTaken {
		conflicts = append(conflicts, core.FieldConflict{Field: "email", Message: "email already in use"})
	}

	if len(conflicts) > 0 {
		return &core.ConflictError{Conflicts: conflicts}
	}
	return nil
}

// rollback runs the accumulated compensations in reverse order. Failures
// are logged but never mask the error that triggered the rollback.
func (s *ProvisionService) rollback(ctx context.Context, corrID string, comps []compensation) {
	for i := len(comps) - 1; i >= 0; i-- {
		if err := comps[i].fn(ctx); err != nil {
			log.Errorw("rollback step failed", "op", corrID, "step", comps[i].name, "error", err)
		} else {
			log.Warnw("rollback step completed", "op", corrID, "step", comps[i].name)
		}
	}
}

// enqueueSignupEmails queues the admin notice and the user verification
// email. Enqueue failures are logged only; they never fail provisioning.
func (s *ProvisionService) enqueueSignupEmails(org *model.Organization, user *model.User) {
	_, err := s.queue.Enqueue(notify.EmailOptions{
		To:       s.adminEmail,
		Template: notify.TemplateAdminSignupNotice,
		Data: map[string]any{
			"orgName":  org.Name,
			"username": user.Username,
			"email":    user.Email,
		},
	})
	if err != nil {
		log.Errorw("failed to enqueue admin signup notice", "orgId", org.OrgID, "error", err)
	}

	_, err = s.queue.Enqueue(notify.EmailOptions{
		To:       user.Email,
		Template: notify.TemplateVerifyEmail,
		Data: map[string]any{
			"firstName": user.FirstName,
			"verifyURL": s.consoleURL + "/verify-email?token=" + user.VerificationToken,
		},
	})
	if err != nil {
		log.Errorw("failed to enqueue verification email", "userId", user.UserID, "error", err)
	}
}
