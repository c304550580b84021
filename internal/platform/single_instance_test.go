package platform

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acquireTestGuard(t *testing.T) (*InstanceGuard, string) {
	t.Helper()
	name := fmt.Sprintf("breathwork-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { _ = guard.Release() })
	return guard, name
}

func TestSingleInstanceGuard(t *testing.T) {
	guard, name := acquireTestGuard(t)
	assert.NotEmpty(t, guard.Address())

	_, err := AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestRequestShowReachesRunningInstance(t *testing.T) {
	guard, name := acquireTestGuard(t)
	shown := make(chan struct{}, 1)
	guard.ServeShowRequests(func() { shown <- struct{}{} })

	require.NoError(t, RequestShow(name))
	select {
	case <-shown:
	case <-time.After(2 * time.Second):
		t.Fatal("show request was not delivered")
	}
}

func TestRequestShowWithoutInstance(t *testing.T) {
	guard, name := acquireTestGuard(t)
	require.NoError(t, guard.Release())

	assert.ErrorIs(t, RequestShow(name), ErrNotRunning)
}

func TestShowRequestIgnoresForeignClients(t *testing.T) {
	guard, _ := acquireTestGuard(t)
	shown := make(chan struct{}, 1)
	guard.ServeShowRequests(func() { shown <- struct{}{} })

	conn, err := net.DialTimeout("tcp", guard.Address(), time.Second)
	require.NoError(t, err)
	_, err = fmt.Fprintln(conn, "someone-else show")
	require.NoError(t, err)
	buffer := make([]byte, 8)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(buffer)
	assert.Error(t, err)
	_ = conn.Close()

	select {
	case <-shown:
		t.Fatal("foreign request triggered show")
	default:
	}
}

func TestServeAfterReleaseIsNoop(t *testing.T) {
	guard, _ := acquireTestGuard(t)
	require.NoError(t, guard.Release())

	guard.ServeShowRequests(func() { t.Fatal("unexpected show") })
}

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("breathwork")
	assert.Equal(t, port, portFromName("breathwork"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}
