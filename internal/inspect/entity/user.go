package entity

import "time"

// User roles
const (
	RoleAdmin     = "admin"
	RoleInspector = "inspector"
	RoleViewer    = "viewer"
)

// User an application account. Supplies {role, display name} to inspection writes.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	DisplayName  string    `json:"display_name" gorm:"size:200;not null"`
	Role         string    `json:"role" gorm:"size:20;not null;index"` // admin/inspector/viewer
	DepartmentID *string   `json:"department_id" gorm:"size:36;index"`
	IsActive     bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

func (User) TableName() string {
	return "users"
}
