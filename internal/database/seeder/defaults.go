package seeder

import "skill-match/internal/domain/catalog"

func Defaults(c *catalog.Catalog) []Seeder {
	return []Seeder{
		CatalogSeeder{Catalog: c},
	}
}
