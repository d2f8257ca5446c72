package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zarpadomueble-ops/storefront-gateway/internal/delivery"
)

// DefaultMachineIdleTTL is how long an untouched checkout keeps its state
// machine. Delivery state is deliberately ephemeral; only the cart and the
// shipping-data step persist.
const DefaultMachineIdleTTL = 30 * time.Minute

// MachineFactory builds a fresh delivery machine for a new session.
type MachineFactory func() (*delivery.Machine, error)

type machineEntry struct {
	machine  *delivery.Machine
	lastSeen time.Time
}

// Machines holds one delivery state machine per active session and evicts
// idle ones.
type Machines struct {
	factory MachineFactory
	idleTTL time.Duration

	mu      sync.Mutex
	entries map[string]*machineEntry
}

func NewMachines(factory MachineFactory, idleTTL time.Duration) (*Machines, error) {
	if factory == nil {
		return nil, fmt.Errorf("machine factory required")
	}
	if idleTTL <= 0 {
		idleTTL = DefaultMachineIdleTTL
	}
	return &Machines{
		factory: factory,
		idleTTL: idleTTL,
		entries: make(map[string]*machineEntry),
	}, nil
}

// Get returns the session's machine, creating it on first use.
func (m *Machines) Get(sessionID string) (*delivery.Machine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.entries[sessionID]; ok {
		entry.lastSeen = time.Now()
		return entry.machine, nil
	}

	machine, err := m.factory()
	if err != nil {
		return nil, err
	}
	m.entries[sessionID] = &machineEntry{machine: machine, lastSeen: time.Now()}
	return machine, nil
}

// Prune drops machines idle beyond the TTL and returns how many went.
func (m *Machines) Prune() int {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, entry := range m.entries {
		if entry.lastSeen.Before(cutoff) {
			entry.machine.Close()
			delete(m.entries, id)
			pruned++
		}
	}
	return pruned
}

// PruneLoop runs Prune on a ticker until the context ends.
func (m *Machines) PruneLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune()
		}
	}
}

// Len reports the number of live machines.
func (m *Machines) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
