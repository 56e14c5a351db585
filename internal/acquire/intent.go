package acquire

import (
	"fmt"
	"strings"
)

// IntentKind tags the navigation intent variant.
type IntentKind int

const (
	IntentNone     IntentKind = iota // open the latest saved roadmap
	IntentByID                       // open a specific roadmap
	IntentForceNew                   // go straight to the configuration form
)

func (k IntentKind) String() string {
	switch k {
	case IntentByID:
		return "by-id"
	case IntentForceNew:
		return "force-new"
	default:
		return "none"
	}
}

// Intent is how the user arrived at the roadmap view. ID is set only for
// IntentByID.
type Intent struct {
	Kind IntentKind
	ID   string
}

func None() Intent     { return Intent{Kind: IntentNone} }
func ForceNew() Intent { return Intent{Kind: IntentForceNew} }

// ByID returns an IntentByID for id, or None when id is blank.
func ByID(id string) Intent {
	id = strings.TrimSpace(id)
	if id == "" {
		return None()
	}
	return Intent{Kind: IntentByID, ID: id}
}

// ParseIntent resolves explicit navigation arguments. forceNew wins over an
// id when both are given.
func ParseIntent(id string, forceNew bool) Intent {
	if forceNew {
		return ForceNew()
	}
	return ByID(id)
}

func (i Intent) String() string {
	if i.Kind == IntentByID {
		return fmt.Sprintf("by-id(%s)", i.ID)
	}
	return i.Kind.String()
}
