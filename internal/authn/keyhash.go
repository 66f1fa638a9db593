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

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for hashed-at-rest admin keys.
const (
	argon2Memory      = 64 * 1024
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltLength  = 16
	argon2KeyLength   = 32
)

// KeyChecker validates a presented static admin key against the
// configured secret in constant time.
type KeyChecker struct {
	// digest of the plaintext secret, when configured in plain form
	plainDigest []byte
	// encoded argon2id hash, when the secret is stored hashed at rest
	encodedHash string
}

// NewKeyChecker builds a checker from either a plaintext secret or an
// argon2id-encoded hash (distinguished by the $argon2id$ prefix). An
// empty secret disables static-key auth: Check always fails.
func NewKeyChecker(secret string) *KeyChecker {
	c := &KeyChecker{}
	if secret == "" {
		return c
	}
	if strings.HasPrefix(secret, "$argon2id$") {
		c.encodedHash = secret
		return c
	}
	digest := sha256.Sum256([]byte(secret))
	c.plainDigest = digest[:]
	return c
}

// Check reports whether the presented key matches the configured
// secret. Both sides are reduced to fixed-length digests before the
// comparison, so the compare is constant-time and input length is not
// observable through the fast path.
func (c *KeyChecker) Check(presented string) bool {
	if presented == "" {
		return false
	}
	if c.encodedHash != "" {
		ok, err := verifyArgon2Key(presented, c.encodedHash)
		return err == nil && ok
	}
	if c.plainDigest == nil {
		return false
	}
	digest := sha256.Sum256([]byte(presented))
	return subtle.ConstantTimeCompare(digest[:], c.plainDigest) == 1
}

// HashKey produces an argon2id-encoded hash of a key, suitable for the
// ADMIN_API_KEY_HASH configuration form.
// Encoded as: $argon2id$v=19$m=memory,t=iterations,p=parallelism$salt$hash
func HashKey(key string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(key), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Iterations,
		argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// verifyArgon2Key re-derives the hash with the parameters embedded in
// the encoded form and compares in constant time.
func verifyArgon2Key(key, encodedHash string) (bool, error) {
	sections := strings.Split(strings.TrimPrefix(encodedHash, "$"), "$")
	// Expected 5 sections: ["argon2id", "v=19", "m=65536,t=3,p=4", "salt", "hash"]
	if len(sections) != 5 || sections[0] != "argon2id" {
		return false, fmt.Errorf("invalid hash format: got %d sections", len(sections))
	}

	var version int
	if _, err := fmt.Sscanf(sections[1], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid version: %w", err)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("invalid parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		return false, fmt.Errorf("invalid salt encoding: %w", err)
	}

	expected, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false, fmt.Errorf("invalid hash encoding: %w", err)
	}

	actual := argon2.IDKey([]byte(key), salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}
