package health

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Leganyst/campaign-platform/internal/repository"
	"github.com/Leganyst/campaign-platform/internal/testutil"
)

type fakeDB struct{ err error }

func (f *fakeDB) Ping(context.Context) error { return f.err }

func status(t *testing.T, s *Server, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestCheck_FollowsDatabase(t *testing.T) {
	db := &fakeDB{}
	s := NewServer(db, nil)

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, s.Check(context.Background()))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, status(t, s, ""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, status(t, s, ServiceName))

	db.err = errors.New("connection reset")
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, s.Check(context.Background()))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, status(t, s, ServiceName))
}

func TestCheck_RealDatabase(t *testing.T) {
	repos := repository.New(testutil.NewDB(t))
	s := NewServer(repos, nil)

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, s.Check(context.Background()))
}

func TestServe_StopsOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(&fakeDB{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestPing_ReturnsDatabaseError(t *testing.T) {
	want := errors.New("timeout")
	s := NewServer(&fakeDB{err: want}, nil)

	assert.ErrorIs(t, s.Ping(context.Background()), want)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, status(t, s, ""))
}
