package sheets

import (
	"context"
	"sync"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// MockWriter is a test double for the ReportWriter interface.
type MockWriter struct {
	mu          sync.Mutex
	WriteCalls  int
	LastMetrics *model.PeriodMetrics
	LastMatrix  *model.TransitionSet
	WriteErr    error
}

// Write records the call and returns the configured error.
func (m *MockWriter) Write(_ context.Context, metrics *model.PeriodMetrics, transitions *model.TransitionSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCalls++
	m.LastMetrics = metrics
	m.LastMatrix = transitions
	return m.WriteErr
}
