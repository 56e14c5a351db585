package progress

import "sort"

// SkillSet is an unordered set of skill ids. Equality is by membership only.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from ids. Duplicate ids collapse.
func NewSkillSet(ids ...string) SkillSet {
	s := make(SkillSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SkillSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s SkillSet) Add(id string)    { s[id] = struct{}{} }
func (s SkillSet) Remove(id string) { delete(s, id) }
func (s SkillSet) Len() int         { return len(s) }

// Clone returns an independent copy.
func (s SkillSet) Clone() SkillSet {
	out := make(SkillSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same ids.
func (s SkillSet) Equal(other SkillSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// CountIn returns how many of ids are members of the set. Repeated ids in
// the argument are counted once.
func (s SkillSet) CountIn(ids []string) int {
	seen := make(map[string]bool, len(ids))
	n := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s.Has(id) {
			n++
		}
	}
	return n
}

// Sorted returns the members in ascending order. The wire payload uses this
// so identical sets always serialize identically.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
