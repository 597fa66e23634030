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

package model

// UserStatus is the approval state of a console user. Status and the
// enabled flag change together, only through the approval state machine,
// and approved/rejected are terminal.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// Valid reports whether s is a known status value.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusApproved, UserStatusRejected:
		return true
	}
	return false
}

// User is a console user held by the identity directory. VerificationToken
// is single-use and cleared once the email is verified.
type User struct {
	UserID            string     `json:"userId"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Enabled           bool       `json:"enabled"`
	Status            UserStatus `json:"status"`
	VerificationToken string     `json:"-"`
	OrgID             string     `json:"orgId"`
}

// SignupRequest is a tenant signup submission: one organization plus its
// initial admin user.
type SignupRequest struct {
	OrgName   string `json:"orgName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProvisionResult is the outcome of a successful signup.
type ProvisionResult struct {
	Organization *Organization `json:"organization"`
	User         *User         `json:"adminUser"`
}

// Page is a pagination request.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Normalize fills zero or negative pagination values with defaults.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	return p
}

// UserWithOrg is a user joined with its organization's name. OrgName stays
// empty when the referenced organization no longer resolves.
type UserWithOrg struct {
	User
	OrgName string `json:"orgName"`
}

// UserPage is one page of users with organization info.
type UserPage struct {
	Users []UserWithOrg `json:"users"`
	Total int           `json:"total"`
}
