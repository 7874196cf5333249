package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"skill-match/internal/domain/matching"
)

var ErrInvalidCatalog = errors.New("invalid role catalog")

// Catalog is the immutable, ordered mapping of role name to required skills.
// It is built once and shared read-only between requests.
type Catalog struct {
	roles   []matching.Role
	byName  map[string]int
	vocab   matching.SkillSet
	version string
}

// RoleInput is the raw shape a catalog source hands to New.
type RoleInput struct {
	Name   string
	Skills []string
}

func New(inputs []RoleInput) (*Catalog, error) {
	c := &Catalog{
		roles:  make([]matching.Role, 0, len(inputs)),
		byName: make(map[string]int, len(inputs)),
	}

	h := sha256.New()
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty role name", ErrInvalidCatalog)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, name)
		}

		var skills matching.SkillSet
		for i, s := range in.Skills {
			if matching.NormalizeSkill(s) == "" {
				return nil, fmt.Errorf("%w: role %q has blank skill at index %d", ErrInvalidCatalog, name, i)
			}
			skills.Add(s)
		}

		c.byName[name] = len(c.roles)
		c.roles = append(c.roles, matching.Role{Name: name, Skills: skills})
		c.vocab = c.vocab.Union(skills)

		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(skills.Items(), "\x1f")))
		h.Write([]byte{0})
	}
	c.version = hex.EncodeToString(h.Sum(nil))[:16]

	return c, nil
}

// Roles returns the roles in catalog order.
func (c *Catalog) Roles() []matching.Role {
	if c == nil {
		return nil
	}
	out := make([]matching.Role, len(c.roles))
	copy(out, c.roles)
	return out
}

func (c *Catalog) Lookup(name string) (matching.Role, bool) {
	if c == nil {
		return matching.Role{}, false
	}
	i, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return matching.Role{}, false
	}
	return c.roles[i], true
}

func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.roles))
	for _, r := range c.roles {
		out = append(out, r.Name)
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.roles)
}

// Vocabulary is the union of every role's skills.
func (c *Catalog) Vocabulary() matching.SkillSet {
	if c == nil {
		return matching.SkillSet{}
	}
	return c.vocab
}

// Version is a short content hash; it changes whenever any role or skill does.
func (c *Catalog) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

// Inputs converts the catalog back into the source shape, e.g. for seeding.
func (c *Catalog) Inputs() []RoleInput {
	if c == nil {
		return nil
	}
	out := make([]RoleInput, 0, len(c.roles))
	for _, r := range c.roles {
		out = append(out, RoleInput{Name: r.Name, Skills: r.Skills.Items()})
	}
	return out
}
