// Copyright 2026 The Shopfort Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package authn

// Method identifies how a caller proved its identity. The resolver
// branches exhaustively on this tag.
type Method string

const (
	// MethodToken means the caller presented a verified bearer token.
	MethodToken Method = "token"

	// MethodStaticKey means the caller presented the configured admin
	// API key.
	MethodStaticKey Method = "static_key"
)

// StaticKeySubject is the fixed sentinel subject assigned to
// static-key callers. It never corresponds to a directory row.
const StaticKeySubject = "static-key-admin"

// Identity is the raw, low-trust result of authentication: who the
// caller claims to be and how the claim was verified. It is created per
// request, never persisted, and carries no authorization facts.
type Identity struct {
	SubjectID string
	Email     string // may be empty; tokens are not required to carry one
	Method    Method
}

// StaticKeyIdentity returns the identity assigned to API-key callers.
func StaticKeyIdentity() *Identity {
	return &Identity{
		SubjectID: StaticKeySubject,
		Method:    MethodStaticKey,
	}
}
