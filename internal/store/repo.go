package store

import (
	"context"
	"time"

	"github.com/abhisek/skilltrail/internal/roadmap"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	Purpose    string
	FailedOnly bool
}

// User is an account known to the server.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// UserRepo manages accounts.
type UserRepo interface {
	// Ensure returns the user with username, creating it if needed.
	Ensure(ctx context.Context, username string) (User, error)
	Get(ctx context.Context, id string) (User, error)
}

// RoadmapRepo stores generated roadmaps, one per (user, role).
type RoadmapRepo interface {
	// Upsert stores doc for (userID, role). An existing roadmap for the
	// same role keeps its id and bookmark flag. The returned document has
	// ID and IsBookmarked filled in.
	Upsert(ctx context.Context, userID, role string, days int, doc *roadmap.Document) (*roadmap.Document, error)

	// Latest returns the most recently generated roadmap of the user.
	Latest(ctx context.Context, userID string) (*roadmap.Document, error)

	Get(ctx context.Context, userID, id string) (*roadmap.Document, error)

	// List returns summaries newest first.
	List(ctx context.Context, userID string) ([]roadmap.Summary, error)

	// ToggleBookmark flips the flag and returns the new value.
	ToggleBookmark(ctx context.Context, userID, id string) (bool, error)

	// DeleteUnbookmarked removes every non-bookmarked roadmap of the user.
	DeleteUnbookmarked(ctx context.Context, userID string) (int, error)
}

// Progress is a user's persisted completion set and activity days.
type Progress struct {
	SolvedIDs   []string
	StreakDates []string // YYYY-MM-DD, ascending
	UpdatedAt   time.Time
}

// ProgressRepo stores completion sets.
type ProgressRepo interface {
	// Get returns the user's progress; a user with none gets the zero value.
	Get(ctx context.Context, userID string) (Progress, error)

	// Replace overwrites the completion set. If it adds any id not
	// previously solved, today is recorded as an activity day.
	Replace(ctx context.Context, userID string, solvedIDs []string) (Progress, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageRow aggregates LLM events by one key.
type UsageRow struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]UsageRow, error)
	LLMUsageByModel(ctx context.Context) ([]UsageRow, error)
}
