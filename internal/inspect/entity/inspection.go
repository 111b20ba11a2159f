package entity

import "time"

// Overall inspection status
const (
	OverallStatusNormal   = "normal"
	OverallStatusAbnormal = "abnormal"
)

// Machine disposition derived from an inspection
const (
	MachineStatusOperational     = "operational"
	MachineStatusRepair          = "repair"
	MachineStatusPendingDisposal = "pending_disposal"
)

// Inspection one monthly checklist run against a generator.
// The composite unique index is the authoritative guard for the
// one-inspection-per-generator-per-month invariant; concurrent creates for
// the same period resolve at the constraint, not the service pre-check.
type Inspection struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	InspectionCode string    `json:"inspection_code" gorm:"size:32;uniqueIndex;not null"`
	GeneratorID    string    `json:"generator_id" gorm:"size:36;not null;index;uniqueIndex:idx_inspections_period"`
	Month          int       `json:"month" gorm:"not null;uniqueIndex:idx_inspections_period"`
	Year           int       `json:"year" gorm:"not null;uniqueIndex:idx_inspections_period"`
	InspectionDate time.Time `json:"inspection_date" gorm:"not null"`
	FormTemplateID string    `json:"form_template_id" gorm:"size:36;not null"`
	InspectorName  string    `json:"inspector_name" gorm:"size:200;not null"`
	OverallStatus  string    `json:"overall_status" gorm:"size:20;not null"` // normal/abnormal
	MachineStatus  string    `json:"machine_status" gorm:"size:20;not null"` // operational/repair/pending_disposal
	OverallRemark  string    `json:"overall_remark" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Generator *Generator         `json:"generator,omitempty" gorm:"foreignKey:GeneratorID"`
	Details   []InspectionDetail `json:"details,omitempty" gorm:"foreignKey:InspectionID"`
}

func (Inspection) TableName() string {
	return "inspections"
}

// InspectionDetail one evaluated checklist item. Description snapshots the
// template item's text at inspection time and survives later template edits.
type InspectionDetail struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	InspectionID string    `json:"inspection_id" gorm:"size:36;not null;index"`
	ItemCode     string    `json:"item_code" gorm:"size:50;not null;index"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	Status       string    `json:"status" gorm:"size:20;not null"` // normal/abnormal
	Remark       string    `json:"remark" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (InspectionDetail) TableName() string {
	return "inspection_details"
}
