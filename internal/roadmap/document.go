package roadmap

import "time"

// Resource is a display-only study link attached to a skill.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Skill is the unit of completion tracking. Its ID is unique across the
// whole document.
type Skill struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Resources   []Resource `json:"resources,omitempty"`
}

// Track groups skills by topic within a level.
type Track struct {
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

// Level is one difficulty stage of the curriculum.
type Level struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// Document is a generated curriculum. It carries no per-skill completion
// state; completion lives in a separate id-keyed set.
type Document struct {
	// ID is assigned by the generation service. Empty for a document that
	// has not been generated yet.
	ID           string  `json:"_id,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	DurationDays int     `json:"duration_days"`
	IsBookmarked bool    `json:"is_bookmarked"`
	IsSimulated  bool    `json:"is_simulated,omitempty"`
	Levels       []Level `json:"levels"`
}

// AllSkillIDs flattens levels, tracks and skills in document order.
func (d *Document) AllSkillIDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, d.SkillCount())
	for _, l := range d.Levels {
		for _, t := range l.Tracks {
			for _, s := range t.Skills {
				ids = append(ids, s.ID)
			}
		}
	}
	return ids
}

// SkillCount returns the total number of skills in the document.
func (d *Document) SkillCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, l := range d.Levels {
		for _, t := range l.Tracks {
			n += len(t.Skills)
		}
	}
	return n
}

// Skill looks up a skill by id.
func (d *Document) Skill(id string) (Skill, bool) {
	if d == nil {
		return Skill{}, false
	}
	for _, l := range d.Levels {
		for _, t := range l.Tracks {
			for _, s := range t.Skills {
				if s.ID == id {
					return s, true
				}
			}
		}
	}
	return Skill{}, false
}

// SkillIDs returns the ids of the track's skills in order.
func (t Track) SkillIDs() []string {
	ids := make([]string, len(t.Skills))
	for i, s := range t.Skills {
		ids[i] = s.ID
	}
	return ids
}

// Clone returns a deep copy so callers can hold a document without sharing
// slices with the original.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Levels = make([]Level, len(d.Levels))
	for i, l := range d.Levels {
		nl := l
		nl.Tracks = make([]Track, len(l.Tracks))
		for j, t := range l.Tracks {
			nt := t
			nt.Skills = make([]Skill, len(t.Skills))
			for k, s := range t.Skills {
				ns := s
				ns.Resources = append([]Resource(nil), s.Resources...)
				nt.Skills[k] = ns
			}
			nl.Tracks[j] = nt
		}
		out.Levels[i] = nl
	}
	return &out
}

// Summary is the list-view projection of a stored roadmap.
type Summary struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Days         int       `json:"days"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	TotalSkills  int       `json:"total_skills"`
	IsBookmarked bool      `json:"is_bookmarked"`
}
