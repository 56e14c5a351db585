package api

// GenerateRequest asks the curriculum service for a new roadmap.
type GenerateRequest struct {
	TargetRole      string   `json:"target_role" validate:"required,max=100"`
	DaysRemaining   int      `json:"days_remaining" validate:"required,gt=0,lte=3650"`
	WeakPatterns    []string `json:"weak_patterns" validate:"dive,max=100"`
	ForceRegenerate bool     `json:"force_regenerate"`
}

// ProgressRequest replaces the whole persisted completion set.
type ProgressRequest struct {
	SolvedIDs []string `json:"solved_ids" validate:"dive,required,max=200"`
}

// BookmarkResponse reports the bookmark value the server settled on.
type BookmarkResponse struct {
	Status       string `json:"status"`
	IsBookmarked bool   `json:"is_bookmarked"`
}

// CleanupResponse is returned by the sign-out cascade.
type CleanupResponse struct {
	DeletedCount int `json:"deleted_count"`
}

// StatusResponse is a generic acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response from the server.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// LoginRequest exchanges a user name for a bearer token.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GenerationKeyHeader carries a caller-supplied LLM key for a single
// generation request.
const GenerationKeyHeader = "x-groq-api-key"
