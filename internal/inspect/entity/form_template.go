package entity

import "time"

// FormTemplate checklist template assigned to generators
type FormTemplate struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:200;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []FormTemplateItem `json:"items,omitempty" gorm:"foreignKey:FormTemplateID"`
}

func (FormTemplate) TableName() string {
	return "form_templates"
}

// FormTemplateItem one inspectable criterion within a template.
// IsDisposalCriteria marks items whose simultaneous abnormal state retires the machine.
type FormTemplateItem struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:36"`
	FormTemplateID     string    `json:"form_template_id" gorm:"size:36;not null;index"`
	ItemCode           string    `json:"item_code" gorm:"size:50;not null;index"`
	Category           string    `json:"category" gorm:"size:200;not null"`
	Description        string    `json:"description" gorm:"type:text;not null"`
	IsDisposalCriteria bool      `json:"is_disposal_criteria" gorm:"default:false;not null"`
	SortOrder          int       `json:"sort_order" gorm:"default:0;not null"`
	IsActive           bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (FormTemplateItem) TableName() string {
	return "form_template_items"
}
