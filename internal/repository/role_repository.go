package repository

import (
	"context"

	"skill-match/internal/database"
	"skill-match/internal/domain/catalog"
)

type RoleRepository interface {
	LoadCatalog(ctx context.Context) ([]catalog.RoleInput, error)
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

// LoadCatalog returns roles and their skills in seeded order. Roles without
// skills are kept with an empty list.
func (r *PostgresRoleRepository) LoadCatalog(ctx context.Context) ([]catalog.RoleInput, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.name, rs.skill
		 FROM roles r
		 LEFT JOIN role_skills rs ON rs.role_id = r.id
		 ORDER BY r.position ASC, r.name ASC, rs.position ASC NULLS LAST`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.RoleInput, 0)
	index := map[string]int{}
	for rows.Next() {
		var (
			name  string
			skill *string
		)
		if err := rows.Scan(&name, &skill); err != nil {
			return nil, err
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, catalog.RoleInput{Name: name, Skills: []string{}})
		}
		if skill != nil {
			out[i].Skills = append(out[i].Skills, *skill)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
