package usecase

import (
	"context"

	"skill-match/internal/domain/catalog"
	"skill-match/internal/domain/matching"
)

type RoleItem struct {
	Name   string
	Skills []string
}

type CatalogUsecase interface {
	ListRoles(ctx context.Context) ([]RoleItem, error)
	GetRole(ctx context.Context, name string) (RoleItem, error)
}

type Catalog struct {
	catalog *catalog.Catalog
}

func NewCatalogUsecase(c *catalog.Catalog) *Catalog {
	return &Catalog{catalog: c}
}

func (u *Catalog) ListRoles(ctx context.Context) ([]RoleItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u == nil || u.catalog == nil {
		return nil, ErrInternal
	}
	roles := u.catalog.Roles()
	out := make([]RoleItem, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleItem(r))
	}
	return out, nil
}

func (u *Catalog) GetRole(ctx context.Context, name string) (RoleItem, error) {
	if err := ctx.Err(); err != nil {
		return RoleItem{}, err
	}
	if u == nil || u.catalog == nil {
		return RoleItem{}, ErrInternal
	}
	r, ok := u.catalog.Lookup(name)
	if !ok {
		return RoleItem{}, ErrRoleNotFound
	}
	return toRoleItem(r), nil
}

func toRoleItem(r matching.Role) RoleItem {
	return RoleItem{Name: r.Name, Skills: r.Skills.Items()}
}
