package db

import (
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
)

func AutoMigrateDB() error {
	err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return errors.Wrap(err, "uuid extension creation failed")
	}
	err = DB.AutoMigrate(
		&dbmodels.User{},
		&dbmodels.EventProposal{},
		&dbmodels.ApprovalStep{},
		&dbmodels.EventQuery{},
		&dbmodels.EditRecord{},
	)
	if err != nil {
		return errors.Wrap(err, "automigration failed")
	}
	return nil
}
