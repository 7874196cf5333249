package matching

import (
	"encoding/json"
	"strings"
)

// SkillSet is an insertion-ordered set of normalized skill strings.
// The zero value is an empty set ready to use.
type SkillSet struct {
	items []string
	index map[string]struct{}
}

func NewSkillSet(skills ...string) SkillSet {
	var s SkillSet
	for _, sk := range skills {
		s.Add(sk)
	}
	return s
}

func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Add normalizes s and inserts it. Blank values are ignored.
func (s *SkillSet) Add(skill string) bool {
	v := NormalizeSkill(skill)
	if v == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s SkillSet) Contains(skill string) bool {
	if s.index == nil {
		return false
	}
	_, ok := s.index[NormalizeSkill(skill)]
	return ok
}

func (s SkillSet) Len() int {
	return len(s.items)
}

func (s SkillSet) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the members in insertion order.
func (s SkillSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Intersect keeps the receiver's order.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	var out SkillSet
	for _, it := range s.items {
		if other.Contains(it) {
			out.Add(it)
		}
	}
	return out
}

// Difference returns the members of s that are not in other, in s order.
func (s SkillSet) Difference(other SkillSet) SkillSet {
	var out SkillSet
	for _, it := range s.items {
		if !other.Contains(it) {
			out.Add(it)
		}
	}
	return out
}

func (s SkillSet) Union(other SkillSet) SkillSet {
	var out SkillSet
	for _, it := range s.items {
		out.Add(it)
	}
	for _, it := range other.items {
		out.Add(it)
	}
	return out
}

func (s SkillSet) Equal(other SkillSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, it := range s.items {
		if !other.Contains(it) {
			return false
		}
	}
	return true
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *SkillSet) UnmarshalJSON(b []byte) error {
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*s = NewSkillSet(items...)
	return nil
}
