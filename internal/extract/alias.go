package extract

import "strings"

// Aliases maps spellings seen in resumes to the catalog spelling of a skill.
// Keys and values are lower-case.
var Aliases = map[string]string{
	"golang":              "go",
	"js":                  "javascript",
	"ecmascript":          "javascript",
	"ts":                  "typescript",
	"reactjs":             "react",
	"react.js":            "react",
	"nextjs":              "next.js",
	"postgres":            "postgresql",
	"psql":                "postgresql",
	"k8s":                 "kubernetes",
	"ml":                  "machine learning",
	"sklearn":             "scikit-learn",
	"scikit learn":        "scikit-learn",
	"torch":               "pytorch",
	"powerbi":             "power bi",
	"ms excel":            "excel",
	"microsoft excel":     "excel",
	"restful api":         "rest api",
	"restful apis":        "rest api",
	"rest apis":           "rest api",
	"html5":               "html",
	"css3":                "css",
	"tailwindcss":         "tailwind",
	"tailwind css":        "tailwind",
	"amazon web services": "aws",
	"pentesting":          "penetration testing",
	"pen testing":         "penetration testing",
	"ux research":         "user research",
	"wireframes":          "wireframing",
	"prototypes":          "prototyping",
}

// Canonical returns the catalog spelling for token, or token itself when it
// has no alias. Inner whitespace is collapsed before the lookup.
func Canonical(token string) string {
	t := strings.Join(strings.Fields(strings.ToLower(token)), " ")
	if c, ok := Aliases[t]; ok {
		return c
	}
	return t
}

// AliasesOf lists the known alternative spellings of a catalog skill.
func AliasesOf(skill string) []string {
	skill = Canonical(skill)
	out := make([]string, 0)
	for alias, c := range Aliases {
		if c == skill {
			out = append(out, alias)
		}
	}
	return out
}

func canonicalize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Canonical(t)
	}
	return out
}
