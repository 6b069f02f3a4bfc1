package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/shuttleday/shuttleday/internal/api/sse"
	"github.com/shuttleday/shuttleday/internal/dependencies/mocks"
	"github.com/shuttleday/shuttleday/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockPublisher *mocks.RecordingPublisher
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockPublisher := mocks.NewRecordingPublisher()
	hubManager := sse.NewHubManager(logger)

	app := newWithDependencies(store, mockClock, mockRandom, hubManager, mockPublisher, Config{}, logger)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockPublisher: mockPublisher,
	}
}
