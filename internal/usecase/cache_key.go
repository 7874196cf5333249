package usecase

import (
	"strconv"
	"strings"
)

// AnalysisCacheKey identifies an analysis by everything that determines its
// result: catalog content, resume bytes, role and top-N. The role is kept
// as given (trimmed) because catalog lookups are case-sensitive.
func AnalysisCacheKey(catalogVersion, digest, role string, topN int) string {
	return "analysis:" + catalogVersion + ":" + digest + ":" + strings.TrimSpace(role) + ":" + strconv.Itoa(topN)
}
