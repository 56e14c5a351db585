package roadmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate performs structural checks on a document and returns a combined
// error describing every problem found, or nil if the document is usable.
func Validate(d *Document) error {
	if d == nil {
		return fmt.Errorf("roadmap validation failed: nil document")
	}

	var errs []string
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "missing title")
	}
	if len(d.Levels) == 0 {
		errs = append(errs, "no levels")
	}

	seen := make(map[string]bool)
	for li, l := range d.Levels {
		for ti, t := range l.Tracks {
			for si, s := range t.Skills {
				loc := fmt.Sprintf("levels[%d].tracks[%d].skills[%d]", li, ti, si)
				if s.ID == "" {
					errs = append(errs, loc+": empty skill ID")
					continue
				}
				if seen[s.ID] {
					errs = append(errs, fmt.Sprintf("%s: duplicate skill ID %q", loc, s.ID))
				}
				seen[s.ID] = true
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("roadmap validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// EnsureSkillIDs assigns a slug to every skill missing an id and suffixes
// duplicates so ids are unique across the document. It returns the number
// of ids it changed.
func EnsureSkillIDs(d *Document) int {
	if d == nil {
		return 0
	}
	changed := 0
	used := make(map[string]bool)
	for li := range d.Levels {
		for ti := range d.Levels[li].Tracks {
			skills := d.Levels[li].Tracks[ti].Skills
			for si := range skills {
				base := strings.TrimSpace(skills[si].ID)
				if base == "" {
					base = Slug(skills[si].Name)
				}
				id := base
				for n := 2; used[id]; n++ {
					id = base + "-" + strconv.Itoa(n)
				}
				used[id] = true
				if id != skills[si].ID {
					skills[si].ID = id
					changed++
				}
			}
		}
	}
	return changed
}

// Slug lowercases a skill name into a kebab-case id.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "skill"
	}
	return s
}
