package generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/skilltrail/internal/api"
)

// DefaultDays is the study window the form starts with.
const DefaultDays = 45

// Roles are the target roles offered by the configuration form.
var Roles = []string{
	"Backend Developer",
	"Frontend Engineer",
	"Full Stack",
	"AI/ML Engineer",
	"Data Scientist",
}

// ValidationError rejects a form field before any request is sent.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Form holds the configuration form's raw inputs as typed by the user.
type Form struct {
	Role       string
	Days       string
	WeakTopics string
}

func DefaultForm() Form {
	return Form{Role: Roles[0], Days: strconv.Itoa(DefaultDays)}
}

// ParseDays requires a positive integer.
func ParseDays(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: "days", Value: raw, Reason: "must be a whole number"}
	}
	if n <= 0 {
		return 0, &ValidationError{Field: "days", Value: raw, Reason: "must be greater than zero"}
	}
	return n, nil
}

// SplitWeakTopics splits a comma-separated list, trims each entry and drops
// empty ones. The result is never nil.
func SplitWeakTopics(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Build validates f and packages it as a generation request.
func Build(f Form) (api.GenerateRequest, error) {
	role := strings.TrimSpace(f.Role)
	if role == "" {
		return api.GenerateRequest{}, &ValidationError{Field: "role", Value: f.Role, Reason: "is required"}
	}
	days, err := ParseDays(f.Days)
	if err != nil {
		return api.GenerateRequest{}, err
	}
	return api.GenerateRequest{
		TargetRole:      role,
		DaysRemaining:   days,
		WeakPatterns:    SplitWeakTopics(f.WeakTopics),
		ForceRegenerate: true,
	}, nil
}
