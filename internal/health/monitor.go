package health

import (
	"sync"
	"time"

	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
)

// StateSource exposes the provider connection state.
type StateSource interface {
	ProviderState() provider.State
}

// Monitor derives health from the provider state and the block events it has seen.
type Monitor struct {
	source StateSource

	mu          sync.RWMutex
	latestBlock uint64
	lastBlockAt time.Time
}

func NewMonitor(source StateSource) *Monitor {
	return &Monitor{source: source}
}

// OnBlock records a block event. It has the provider.Listener signature.
func (m *Monitor) OnBlock(payload any) {
	number, ok := payload.(uint64)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if number > m.latestBlock {
		m.latestBlock = number
	}
	m.lastBlockAt = time.Now().UTC()
}

// CheckHealth builds the current report.
func (m *Monitor) CheckHealth() Report {
	state := m.source.ProviderState()
	report := Report{
		Status:        statusOf(state),
		ProviderState: state.String(),
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	report.LatestBlock = m.latestBlock
	if !m.lastBlockAt.IsZero() {
		at := m.lastBlockAt
		report.LastBlockAt = &at
	}
	return report
}

func statusOf(state provider.State) SystemStatus {
	switch state {
	case provider.StateOpen:
		return StatusHealthy
	case provider.StateConnecting:
		return StatusDegraded
	default:
		return StatusCritical
	}
}
