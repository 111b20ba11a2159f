package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm errors to the repository sentinels. Requires the
// connection to be opened with TranslateError so unique-index violations
// surface as gorm.ErrDuplicatedKey.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Repositories data-access collection
type Repositories struct {
	Department *DepartmentRepository
	Template   *TemplateRepository
	Generator  *GeneratorRepository
	Inspection *InspectionRepository
	User       *UserRepository
}

// NewRepositories wires every repository to the shared connection.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Department: NewDepartmentRepository(db),
		Template:   NewTemplateRepository(db),
		Generator:  NewGeneratorRepository(db),
		Inspection: NewInspectionRepository(db),
		User:       NewUserRepository(db),
	}
}
