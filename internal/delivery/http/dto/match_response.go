package dto

type MatchRequest struct {
	Role   string   `json:"role"`
	Tokens []string `json:"tokens"`
	Text   string   `json:"text"`
	Top    int      `json:"top"`
}

type RankedRoleResponse struct {
	Role  string `json:"role"`
	Score int    `json:"score"`
}

type MatchResponse struct {
	Role      string               `json:"role"`
	RoleKnown bool                 `json:"role_known"`
	Score     int                  `json:"score"`
	Matched   []string             `json:"matched"`
	Missing   []string             `json:"missing"`
	Extracted []string             `json:"extracted"`
	TopRoles  []RankedRoleResponse `json:"top_roles"`
}
