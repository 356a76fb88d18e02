// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package web

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/venturalabs/ventura/internal/auth"
	authmocks "github.com/venturalabs/ventura/internal/auth/mocks"
	"github.com/venturalabs/ventura/internal/study"
	studymocks "github.com/venturalabs/ventura/internal/study/mocks"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	authSvc, err := auth.NewService(
		authmocks.NewMockUserRepository(t),
		authmocks.NewMockSessionRepository(t),
		authmocks.NewMockPasswordHasher(t),
	)
	require.NoError(t, err)
	studySvc, err := study.NewService(
		studymocks.NewMockSessionRepository(t),
		studymocks.NewMockRoomRepository(t),
		nil,
	)
	require.NoError(t, err)

	handler, err := NewHandler(authSvc, studySvc, false, "/", nil, nil)
	require.NoError(t, err)

	guard, err := NewGuard([]string{"/dashboard", "/dashboard/**"}, "/")
	require.NoError(t, err)

	return NewServer("127.0.0.1:0", handler, guard, nil, nil)
}

func TestServerStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer http.DefaultClient.CloseIdleConnections()

	srv := newTestServer(t)

	errCh, err := srv.Start()
	require.NoError(t, err)
	require.NotEmpty(t, srv.Addr())

	t.Run("double start fails", func(t *testing.T) {
		_, err := srv.Start()
		assert.Error(t, err)
	})

	t.Run("serves the landing page", func(t *testing.T) {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "Ventura")
	})

	t.Run("guard redirects anonymous dashboard requests", func(t *testing.T) {
		client := &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		resp, err := client.Get("http://" + srv.Addr() + "/dashboard")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	// Serve goroutine exits and closes the error channel.
	select {
	case serveErr, ok := <-errCh:
		if ok {
			require.NoError(t, serveErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve goroutine did not exit")
	}

	t.Run("double stop is a no-op", func(t *testing.T) {
		assert.NoError(t, srv.Stop(context.Background()))
	})
}
