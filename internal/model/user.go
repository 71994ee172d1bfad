package model

type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleEditor   Role = "editor"
	RoleAdmin    Role = "admin"
)

// RequiresPlant reports whether users with this role must be assigned to a plant.
func (r Role) RequiresPlant() bool {
	return r == RoleOperator || r == RoleEditor
}

type User struct {
	ID             int      `json:"id"`
	Email          string   `json:"email"`
	FullName       string   `json:"full_name"`
	Role           Role     `json:"role"`
	PowerPlantID   *int     `json:"power_plant_id"`
	PowerPlantName string   `json:"power_plant_name,omitempty"`
	IsActive       bool     `json:"is_active"`
	Permissions    []string `json:"permissions,omitempty"`
}

type UserCreate struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Password     string `json:"password"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"is_active"`
	PowerPlantID *int   `json:"power_plant_id"`
}

// UserUpdate leaves the password unchanged when Password is nil.
type UserUpdate struct {
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Role         Role    `json:"role"`
	IsActive     bool    `json:"is_active"`
	PowerPlantID *int    `json:"power_plant_id"`
	Password     *string `json:"password,omitempty"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
