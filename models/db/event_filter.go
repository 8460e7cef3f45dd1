package dbmodels

import "campus-workflow-backend/models"

// ProposalFilter holds the store-level filters; role visibility is applied
// on top of the filtered set by the listing engine.
type ProposalFilter struct {
	Search       string                `json:"search"`
	Semester     string                `json:"semester"`
	AcademicYear string                `json:"academic_year"`
	Category     models.EventCategory  `json:"category"`
	Status       models.ProposalStatus `json:"status"`
	Sort         models.ListSort       `json:"sort"`
}

type SemesterOption struct {
	Semester     string `json:"semester"`
	AcademicYear string `json:"academic_year"`
}
