/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package secrets

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewCipher(bytes.Repeat([]byte{7}, keyLength))
	require.NoError(t, err)

	encoded, err := c.Encrypt([]byte("ucs-secret"))
	require.NoError(t, err)
	assert.NotContains(t, encoded, "ucs-secret")

	plain, err := c.DecryptString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "ucs-secret", plain)

	other, err := c.Encrypt([]byte("ucs-secret"))
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other)
}

func TestCipherRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := NewCipher([]byte("short"))
	require.ErrorIs(t, err, ErrInvalidKeyLength)

	c, err := NewCipher(bytes.Repeat([]byte{1}, keyLength))
	require.NoError(t, err)

	_, err = c.Decrypt("!!not base64!!")
	require.Error(t, err)

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	require.ErrorIs(t, err, ErrCiphertextTooShort)

	other, err := NewCipher(bytes.Repeat([]byte{2}, keyLength))
	require.NoError(t, err)

	encoded, err := other.Encrypt([]byte("x"))
	require.NoError(t, err)

	_, err = c.Decrypt(encoded)
	require.Error(t, err)
}

func TestPassphraseDerivationIsStable(t *testing.T) {
	t.Parallel()

	a, err := NewCipherFromPassphrase("correct horse", "lab")
	require.NoError(t, err)

	b, err := NewCipherFromPassphrase("correct horse", "lab")
	require.NoError(t, err)

	encoded, err := a.Encrypt([]byte("pw"))
	require.NoError(t, err)

	plain, err := b.DecryptString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "pw", plain)

	_, err = NewCipherFromPassphrase("", "lab")
	require.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestKeySourceLoad(t *testing.T) {
	t.Parallel()

	key, err := GenerateKey()
	require.NoError(t, err)

	fromKey, err := KeySource{Key: key}.Load()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte(key+"\n"), 0o600))

	fromFile, err := KeySource{KeyFile: path}.Load()
	require.NoError(t, err)

	encoded, err := fromKey.Encrypt([]byte("shared"))
	require.NoError(t, err)

	plain, err := fromFile.DecryptString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "shared", plain)

	_, err = KeySource{}.Load()
	require.ErrorIs(t, err, ErrNoKeySource)
	assert.False(t, KeySource{}.Configured())
	assert.True(t, KeySource{Passphrase: "p"}.Configured())
}
