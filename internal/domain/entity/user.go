package entity

import "time"

// Roles válidos para User.
const (
	RoleMaster = "master" // administra usuarios y puede excluir produtos
	RoleCommon = "common"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash
	Role         string // master, common
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si role es uno de los roles soportados.
func IsValidRole(role string) bool {
	return role == RoleMaster || role == RoleCommon
}
