package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/scrimqueue/draftlobby/internal/dependencies/mocks"
	"github.com/scrimqueue/draftlobby/internal/notify"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
	lobbysvc "github.com/scrimqueue/draftlobby/internal/services/lobby"
	"github.com/scrimqueue/draftlobby/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		auth.DefaultConfig(),
		lobbysvc.DefaultRules(),
		notify.NewLogNotifier(logger),
		logger,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
