package seeder

import (
	"context"
	"fmt"

	"skill-match/internal/database"
	"skill-match/internal/domain/catalog"
	"skill-match/internal/domain/matching"

	"github.com/google/uuid"
)

// CatalogSeeder mirrors a catalog into roles/role_skills. Roles keep their
// catalog position and their skill lists are replaced wholesale.
type CatalogSeeder struct {
	Catalog *catalog.Catalog
}

func (CatalogSeeder) Name() string { return "catalog" }

func (s CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Catalog == nil {
		return fmt.Errorf("nil catalog")
	}
	if err := EnsureTableColumns(ctx, db, "roles", "id", "name", "position", "created_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "role_skills", "role_id", "skill", "position"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for pos, role := range s.Catalog.Roles() {
			if err := upsertRole(ctx, tx, pos, role); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertRole(ctx context.Context, tx database.Tx, pos int, role matching.Role) error {
	var roleID uuid.UUID
	err := tx.QueryRow(
		ctx,
		`INSERT INTO roles (id, name, position) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET position = EXCLUDED.position
		RETURNING id`,
		uuid.New(),
		role.Name,
		pos,
	).Scan(&roleID)
	if err != nil {
		return fmt.Errorf("upsert role %q: %w", role.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM role_skills WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	for i, skill := range role.Skills.Items() {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO role_skills (role_id, skill, position) VALUES ($1, $2, $3)`,
			roleID,
			skill,
			i,
		); err != nil {
			return fmt.Errorf("insert skill %q for role %q: %w", skill, role.Name, err)
		}
	}
	return nil
}
