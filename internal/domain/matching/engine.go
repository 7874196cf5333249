package matching

import (
	"math"
	"sort"
)

type Role struct {
	Name   string
	Skills SkillSet
}

// Catalog is the read-only view of roles the matcher ranks against.
type Catalog interface {
	Roles() []Role
	Lookup(name string) (Role, bool)
}

type Result struct {
	Score   int      `json:"score"`
	Matched SkillSet `json:"matched"`
	Missing SkillSet `json:"missing"`
}

type RankedRole struct {
	Role  string `json:"role"`
	Score int    `json:"score"`
}

type Ranked []RankedRole

// Top returns at most n leading entries. n <= 0 yields an empty slice.
func (r Ranked) Top(n int) Ranked {
	if n <= 0 {
		return Ranked{}
	}
	if n > len(r) {
		n = len(r)
	}
	out := make(Ranked, n)
	copy(out, r[:n])
	return out
}

// NormalizeTokens lower-cases and trims every token and drops duplicates and blanks.
func NormalizeTokens(tokens []string) SkillSet {
	return NewSkillSet(tokens...)
}

func ComputeScore(required, extracted SkillSet) int {
	n := required.Len()
	if n == 0 {
		return 0
	}
	k := required.Intersect(extracted).Len()
	return scorePercent(k, n)
}

func ComputeMatch(required, extracted SkillSet) Result {
	matched := required.Intersect(extracted)
	return Result{
		Score:   scorePercent(matched.Len(), required.Len()),
		Matched: matched,
		Missing: required.Difference(extracted),
	}
}

// MatchRole computes the match for a named role. Unknown roles produce the
// zero result and known=false.
func MatchRole(c Catalog, name string, extracted SkillSet) (res Result, known bool) {
	if c == nil {
		return Result{}, false
	}
	role, ok := c.Lookup(name)
	if !ok {
		return Result{}, false
	}
	return ComputeMatch(role.Skills, extracted), true
}

// RankRoles scores every catalog role. Ties keep catalog order.
func RankRoles(c Catalog, extracted SkillSet) Ranked {
	if c == nil {
		return Ranked{}
	}
	roles := c.Roles()
	out := make(Ranked, 0, len(roles))
	for _, r := range roles {
		out = append(out, RankedRole{Role: r.Name, Score: ComputeScore(r.Skills, extracted)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func scorePercent(k, n int) int {
	if n <= 0 {
		return 0
	}
	score := int(math.Round(100 * float64(k) / float64(n)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
