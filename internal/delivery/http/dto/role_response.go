package dto

type RoleResponse struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}
