// Package netstatus tracks whether the forecast services are reachable.
package netstatus

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Checker reports the last known connectivity state
type Checker interface {
	Online() bool
}

// Probe tests connectivity once
type Probe func(ctx context.Context) error

// DialProbe returns a probe that opens (and closes) a TCP connection to addr
func DialProbe(addr string, timeout time.Duration) Probe {
	return func(ctx context.Context) error {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Monitor polls a probe and publishes online/offline transitions
type Monitor struct {
	probe    Probe
	interval time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	online  bool
	changes chan bool
}

// NewMonitor creates a monitor. It starts out online until the first check says otherwise.
func NewMonitor(probe Probe, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		online:   true,
		changes:  make(chan bool, 1),
	}
}

// Online implements Checker
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Changes delivers the new state after every transition. Only the latest
// unread transition is kept.
func (m *Monitor) Changes() <-chan bool {
	return m.changes
}

// Check runs the probe once and records the result
func (m *Monitor) Check(ctx context.Context) bool {
	err := m.probe(ctx)
	online := err == nil

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if changed {
		if online {
			m.logger.Info("connectivity restored")
		} else {
			m.logger.Warn("connectivity lost", "err", err)
		}
		m.publish(online)
	}
	return online
}

// Run checks on every tick until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) publish(online bool) {
	for {
		select {
		case m.changes <- online:
			return
		default:
		}
		// Drop the stale unread state and try again
		select {
		case <-m.changes:
		default:
		}
	}
}

// Static is a Checker with a fixed answer
type Static bool

// Online implements Checker
func (s Static) Online() bool { return bool(s) }
