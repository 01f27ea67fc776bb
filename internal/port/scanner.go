package port

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoFreePort is returned when every port in a range is taken.
var ErrNoFreePort = errors.New("no available port")

// Scanner checks whether TCP ports are free on a given bind address.
//
// It binds with net.Listen and closes immediately. The address matters: a
// port can be free on 127.0.0.1 yet taken on all interfaces, so the Scanner
// probes the same address the server will bind.
type Scanner struct {
	// host is the bind address, "" for all interfaces.
	host string
}

// NewScanner creates a Scanner probing the given bind address.
func NewScanner(host string) *Scanner {
	return &Scanner{host: host}
}

// IsPortAvailable reports whether port can be bound right now.
func (s *Scanner) IsPortAvailable(port int) bool {
	ln, err := net.Listen("tcp", s.addr(port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// FindAvailablePort returns the first free port in [startPort, endPort].
// The search is sequential, so the same port is chosen on every run while
// it remains free.
func (s *Scanner) FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if s.IsPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("%w in range %d-%d", ErrNoFreePort, startPort, endPort)
}

// Listen binds the preferred port. If that fails and fallback holds a
// [start, end] range, it binds the first free port in that range instead.
//
// There is an unavoidable window between probing and binding; Listen retries
// the next candidate if another process wins the race.
func (s *Scanner) Listen(preferred int, fallback []int) (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr(preferred))
	if err == nil {
		return ln, nil
	}
	if len(fallback) != 2 {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr(preferred), err)
	}

	start, end := fallback[0], fallback[1]
	for start <= end {
		port, findErr := s.FindAvailablePort(start, end)
		if findErr != nil {
			return nil, fmt.Errorf("port %d unavailable (%v) and %w", preferred, err, findErr)
		}
		ln, listenErr := net.Listen("tcp", s.addr(port))
		if listenErr == nil {
			return ln, nil
		}
		start = port + 1
	}
	return nil, fmt.Errorf("port %d unavailable (%v) and %w in range %d-%d", preferred, err, ErrNoFreePort, fallback[0], fallback[1])
}

// ListenerPort extracts the bound TCP port from a listener.
func ListenerPort(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

func (s *Scanner) addr(port int) string {
	return net.JoinHostPort(s.host, strconv.Itoa(port))
}
