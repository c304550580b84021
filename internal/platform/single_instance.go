package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// ErrNotRunning indicates no instance answered on the lock address.
var ErrNotRunning = errors.New("no running instance")

const (
	showRequest = "show"
	showReply   = "ok"
	dialTimeout = time.Second
)

// InstanceGuard holds the single-instance lock. While it is held, a second
// launch can ask this instance to bring its exercise window forward.
type InstanceGuard struct {
	mu       sync.Mutex
	listener net.Listener
	address  string
	appName  string
}

// AcquireSingleInstance binds a localhost port derived from appName. A second
// desktop window would run a second exercise against the same settings file.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	return &InstanceGuard{listener: listener, address: address, appName: appName}, nil
}

// ServeShowRequests calls onShow for every show request from a later launch
// until the guard is released. onShow runs on the accept goroutine.
func (guard *InstanceGuard) ServeShowRequests(onShow func()) {
	guard.mu.Lock()
	listener := guard.listener
	guard.mu.Unlock()
	if listener == nil {
		return
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			if guard.answer(conn) {
				onShow()
			}
		}
	}()
}

// answer reads one request line, which must name this app, and replies to it.
func (guard *InstanceGuard) answer(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(dialTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return false
	}
	if strings.TrimSpace(line) != requestLine(guard.appName) {
		return false
	}
	_, err = fmt.Fprintln(conn, showReply)
	return err == nil
}

// RequestShow asks the running instance of appName to show its window.
func RequestShow(appName string) error {
	address := instanceAddress(appName)
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotRunning, address)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(dialTimeout))

	if _, err := fmt.Fprintln(conn, requestLine(appName)); err != nil {
		return fmt.Errorf("send show request: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(reply) != showReply {
		return fmt.Errorf("%w: %s did not answer as %s", ErrNotRunning, address, appName)
	}
	return nil
}

// Release frees the single instance lock and stops serving show requests.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.listener = nil
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func requestLine(appName string) string {
	return appName + " " + showRequest
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
