package usersstore

import (
	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.User, err error)
	// GetByRole resolves the active holder of a hierarchy role; for general
	// secretaries the category disambiguates between the three sub-roles.
	GetByRole(role models.Role, category models.EventCategory) (rec *dbmodels.User, err error)
	Create(rec dbmodels.User) (id string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByRole(role models.Role, category models.EventCategory) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	tx := i.db.
		Where("role = ?", role).
		Where("is_active = true")
	if role == models.RoleGeneralSecretary && category != "" {
		tx = tx.Where("category = ?", category)
	}
	err := tx.First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Create(rec dbmodels.User) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
