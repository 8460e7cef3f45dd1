package eventstore

import (
	"strings"
	"time"

	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.EventProposal) (id string, err error)
	GetByID(id string) (rec *dbmodels.EventProposal, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByOwner(ownerID string) (list []dbmodels.EventProposal, err error)
	List(filter dbmodels.ProposalFilter) (list []dbmodels.EventProposal, err error)
	ListOpenPendingSince(before time.Time) (list []dbmodels.EventProposal, err error)
	SemesterOptions() (list []dbmodels.SemesterOption, err error)

	CreateSteps(steps []dbmodels.ApprovalStep) error
	UpdateStep(stepID string, updMap map[string]interface{}) error

	CreateQuery(rec dbmodels.EventQuery) (id string, err error)
	UpdateQuery(queryID string, updMap map[string]interface{}) error

	CreateEditRecord(rec dbmodels.EditRecord) (id string, err error)
	ListEditHistory(proposalID string) (list []dbmodels.EditRecord, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.EventProposal) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.EventProposal, error) {
	rec := dbmodels.EventProposal{}
	err := i.db.
		Where("id = ?", id).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("role_index ASC")
		}).
		Preload("Queries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.EventProposal{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (i impl) ListByOwner(ownerID string) (list []dbmodels.EventProposal, err error) {
	list = []dbmodels.EventProposal{}
	err = i.db.
		Where("owner_id = ?", ownerID).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("role_index ASC")
		}).
		Preload("Queries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("start_date DESC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) List(filter dbmodels.ProposalFilter) (list []dbmodels.EventProposal, err error) {
	list = []dbmodels.EventProposal{}
	tx := i.db.Model(&dbmodels.EventProposal{})
	i.addFilter(tx, filter)
	switch filter.Sort {
	case models.SortByName:
		tx.Order("event_name ASC")
	case models.SortByStartDateAsc:
		tx.Order("start_date ASC")
	default:
		tx.Order("start_date DESC")
	}
	err = tx.
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("role_index ASC")
		}).
		Preload("Queries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter dbmodels.ProposalFilter) {
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(event_name) like ? or LOWER(club_name) like ? or LOWER(organizer_name) like ? or LOWER(venue) like ? or LOWER(description) like ?",
			searchValue, searchValue, searchValue, searchValue, searchValue)
	}
	if filter.Semester != "" {
		tx.Where("semester = ?", filter.Semester)
	}
	if filter.AcademicYear != "" {
		tx.Where("academic_year = ?", filter.AcademicYear)
	}
	if filter.Category != "" {
		tx.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	}
}

// ListOpenPendingSince returns open proposals untouched since the given time,
// used by the reminder worker.
func (i impl) ListOpenPendingSince(before time.Time) (list []dbmodels.EventProposal, err error) {
	list = []dbmodels.EventProposal{}
	err = i.db.
		Where("status = ?", models.ProposalStatusOpen).
		Where("updated_at < ?", before).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("role_index ASC")
		}).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) SemesterOptions() (list []dbmodels.SemesterOption, err error) {
	list = []dbmodels.SemesterOption{}
	err = i.db.
		Model(&dbmodels.EventProposal{}).
		Distinct("semester", "academic_year").
		Order("academic_year DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CreateSteps(steps []dbmodels.ApprovalStep) error {
	if len(steps) == 0 {
		return nil
	}
	return i.db.Create(&steps).Error
}

func (i impl) UpdateStep(stepID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("id = ?", stepID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (i impl) CreateQuery(rec dbmodels.EventQuery) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateQuery(queryID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.EventQuery{}).
		Where("id = ?", queryID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (i impl) CreateEditRecord(rec dbmodels.EditRecord) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListEditHistory(proposalID string) (list []dbmodels.EditRecord, err error) {
	list = []dbmodels.EditRecord{}
	err = i.db.
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
