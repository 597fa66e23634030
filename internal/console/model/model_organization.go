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

// Organization name length bounds, applied after trimming.
const (
	OrgNameMinLen = 3
	OrgNameMaxLen = 63
)

// Organization is a tenant in the identity directory. The directory assigns
// the id; the console never mutates an organization after creation and
// deletes one only as rollback compensation.
type Organization struct {
	OrgID string `json:"orgId"`
	Name  string `json:"name"`
}
