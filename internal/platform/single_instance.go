package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"
)

var (
	// ErrAlreadyRunning indicates another instance already holds the lock.
	ErrAlreadyRunning = errors.New("instance already running")
	// ErrNoWindow is returned by SignalRunning when the running instance has
	// no window to raise, as with a terminal session.
	ErrNoWindow = errors.New("running instance has no window")
)

const (
	showCommand   = "show"
	shownReply    = "shown"
	noWindowReply = "no-window"
	dialTimeout   = 500 * time.Millisecond
)

// InstanceGuard holds the single-instance lock. The lock is a listener on a
// localhost port derived from the app name; later instances use it to ask
// the holder to raise its window.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireSingleInstance binds the app's localhost port or returns
// ErrAlreadyRunning.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", address, ErrAlreadyRunning)
	}
	return &InstanceGuard{listener: listener}, nil
}

// SignalRunning asks the instance holding the lock to show itself. It
// returns ErrNoWindow when that instance cannot.
func SignalRunning(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), dialTimeout)
	if err != nil {
		return fmt.Errorf("signal running instance: %w", err)
	}
	defer conn.Close()
	if _, err := fmt.Fprintln(conn, showCommand); err != nil {
		return fmt.Errorf("signal running instance: %w", err)
	}
	switch reply := readLine(conn); reply {
	case shownReply:
		return nil
	case noWindowReply:
		return ErrNoWindow
	default:
		return fmt.Errorf("signal running instance: unexpected reply %q", reply)
	}
}

// Serve answers show requests until ctx is done or the guard is released.
// With a nil onShow every request is told there is no window.
func (guard *InstanceGuard) Serve(ctx context.Context, onShow func()) error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	go func() {
		<-ctx.Done()
		_ = guard.listener.Close()
	}()

	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept instance signal: %w", err)
		}
		answer(conn, onShow)
	}
}

func answer(conn net.Conn, onShow func()) {
	defer conn.Close()
	if readLine(conn) != showCommand {
		return
	}
	reply := noWindowReply
	if onShow != nil {
		onShow()
		reply = shownReply
	}
	_ = conn.SetWriteDeadline(time.Now().Add(dialTimeout))
	_, _ = fmt.Fprintln(conn, reply)
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func readLine(conn net.Conn) string {
	_ = conn.SetReadDeadline(time.Now().Add(dialTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
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
