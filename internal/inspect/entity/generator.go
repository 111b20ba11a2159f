package entity

import "time"

// Generator a standby generator in a department. IsActive=false means
// retired/disposed and excluded from future inspection obligations.
type Generator struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	AssetID        string    `json:"asset_id" gorm:"size:100;uniqueIndex;not null"`
	Type           string    `json:"type" gorm:"size:100;not null"`
	SizeKW         float64   `json:"size_kw" gorm:"type:decimal(10,2);not null"`
	Product        string    `json:"product" gorm:"size:200"`
	Location       string    `json:"location" gorm:"size:300;not null"`
	DepartmentID   string    `json:"department_id" gorm:"size:36;not null;index"`
	FormTemplateID *string   `json:"form_template_id" gorm:"size:36;index"`
	IsActive       bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Department   *Department   `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	FormTemplate *FormTemplate `json:"form_template,omitempty" gorm:"foreignKey:FormTemplateID"`
}

func (Generator) TableName() string {
	return "generators"
}
