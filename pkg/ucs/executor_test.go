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

package ucs

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/obmpoller/pkg/crypto/secrets"
	"github.com/carverauto/obmpoller/pkg/models"
)

func TestPollPath(t *testing.T) {
	t.Parallel()

	path := PollPath("sys/rack-unit-1", []string{"memoryUnitEnvStats", "processorEnvStats"})

	u, err := url.Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "/pollers", u.Path)
	assert.Equal(t, "sys/rack-unit-1", u.Query().Get("identifier"))
	assert.Equal(t, "memoryUnitEnvStats,processorEnvStats", u.Query().Get("classIds"))
}

func TestExecutorDecryptsWithRealCipher(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	cipher, err := secrets.NewCipherFromBase64(key)
	require.NoError(t, err)

	ciphertext, err := cipher.Encrypt([]byte("hunter2"))
	require.NoError(t, err)

	transport := NewMockTransport(ctrl)
	factory := NewMockTransportFactory(ctrl)

	factory.EXPECT().NewTransport(gomock.Any()).DoAndReturn(func(endpoint models.OBMConfig) (Transport, error) {
		assert.Equal(t, "hunter2", endpoint.UCSPassword)
		assert.Equal(t, "admin", endpoint.UCSUser)

		return transport, nil
	})
	transport.EXPECT().Request(gomock.Any(), PollPath("sys/chassis-2", []string{"equipmentPsuStats"})).
		Return([]byte(`[]`), nil)

	exec := NewExecutor(DefaultCommandClassIDs(), factory, cipher, time.Second)

	endpoint := &models.OBMConfig{UCSUser: "admin", UCSPassword: ciphertext, DN: "sys/chassis-2"}

	body, err := exec.Execute(context.Background(), CommandPSU, endpoint)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), body)

	assert.Equal(t, ciphertext, endpoint.UCSPassword, "stored settings keep the ciphertext")
}

func TestExecutorUnknownCommandBuildsNoTransport(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	exec := NewExecutor(DefaultCommandClassIDs(), NewMockTransportFactory(ctrl), NewMockDecrypter(ctrl), 0)

	_, err := exec.Execute(context.Background(), "ucs.nope", &models.OBMConfig{DN: "sys"})
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "no class identifiers for command")
}

func TestExecutorSkipsDecryptForEmptyPassword(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	transport := NewMockTransport(ctrl)
	factory := NewMockTransportFactory(ctrl)

	factory.EXPECT().NewTransport(models.OBMConfig{DN: "sys"}).Return(transport, nil)
	transport.EXPECT().Request(gomock.Any(), gomock.Any()).Return([]byte(`{}`), nil)

	exec := NewExecutor(DefaultCommandClassIDs(), factory, NewMockDecrypter(ctrl), 0)

	_, err := exec.Execute(context.Background(), CommandLED, &models.OBMConfig{DN: "sys"})
	require.NoError(t, err)
}

func TestExecutorAppliesPollTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	transport := NewMockTransport(ctrl)
	factory := NewMockTransportFactory(ctrl)

	factory.EXPECT().NewTransport(gomock.Any()).Return(transport, nil)
	transport.EXPECT().Request(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()

		return nil, &TransportError{Path: "/pollers", Err: ctx.Err()}
	})

	exec := NewExecutor(DefaultCommandClassIDs(), factory, NewMockDecrypter(ctrl), 20*time.Millisecond)

	_, err := exec.Execute(context.Background(), CommandSEL, &models.OBMConfig{DN: "sys"})
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecutorFactoryError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	factory := NewMockTransportFactory(ctrl)
	factoryErr := errors.New("bad endpoint")

	factory.EXPECT().NewTransport(gomock.Any()).Return(nil, factoryErr)

	exec := NewExecutor(DefaultCommandClassIDs(), factory, NewMockDecrypter(ctrl), 0)

	_, err := exec.Execute(context.Background(), CommandDisk, &models.OBMConfig{DN: "sys"})
	require.ErrorIs(t, err, factoryErr)
}
