package dbmodels

import (
	"time"

	"campus-workflow-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventProposal struct {
	BaseModel
	OwnerID string `gorm:"type:varchar(36);index:idx_proposal_owner"`
	Owner   *User  `gorm:"foreignKey:OwnerID"`

	EventName      string               `gorm:"type:varchar(255)"`
	ClubName       string               `gorm:"type:varchar(255)"`
	Category       models.EventCategory `gorm:"type:varchar(100);index:idx_proposal_category"`
	Venue          string               `gorm:"type:varchar(255)"`
	StartDate      time.Time            `gorm:"index"`
	EndDate        time.Time
	OrganizerName  string `gorm:"type:varchar(255)"`
	OrganizerEmail string `gorm:"type:varchar(255)"`
	OrganizerPhone string `gorm:"type:varchar(100)"`
	Description    string
	Budget         BudgetLines `gorm:"type:jsonb"`
	ExpectedBitsians int
	ExpectedOutstation int
	Requirements   StringList `gorm:"type:jsonb"`

	// derived from StartDate, recomputed on edit
	Semester     string `gorm:"type:varchar(100);index:idx_proposal_semester"`
	AcademicYear string `gorm:"type:varchar(100);index:idx_proposal_year"`

	Status   models.ProposalStatus `gorm:"type:varchar(100);index:idx_proposal_status"`
	ClosedBy string                `gorm:"type:varchar(255)"`
	ClosedAt *time.Time

	// exactly one step per hierarchy role, ordered by RoleIndex
	Approvals   []ApprovalStep `gorm:"foreignKey:ProposalID"`
	Queries     []EventQuery   `gorm:"foreignKey:ProposalID"`
	EditHistory []EditRecord   `gorm:"foreignKey:ProposalID"`
}

type ApprovalStep struct {
	BaseModel
	ProposalID string      `gorm:"type:varchar(36);index:idx_step_proposal"`
	Role       models.Role `gorm:"type:varchar(100)"`
	RoleIndex  int
	Status     models.ApprovalStatus `gorm:"type:varchar(100)"`
	Comment    string
	DecidedAt  *time.Time
}

type EventQuery struct {
	BaseModel
	ProposalID     string      `gorm:"type:varchar(36);index:idx_query_proposal"`
	AskerRole      models.Role `gorm:"type:varchar(100)"`
	QueryText      string
	ResponderEmail string             `gorm:"type:varchar(255)"`
	Status         models.QueryStatus `gorm:"type:varchar(100)"`
	Response       string
	AnsweredAt     *time.Time
	IsPostApproval bool
}

// EditRecord is append-only: written once by the edit engine, never updated.
type EditRecord struct {
	BaseModel
	ProposalID string `gorm:"type:varchar(36);index:idx_edit_proposal"`
	EditedBy   string `gorm:"type:varchar(36)"`
	Editor     *User  `gorm:"foreignKey:EditedBy"`
	Changes    EntityChanges `gorm:"type:jsonb"`
	Reason     string        `gorm:"type:varchar(255)"`
}

func (p *EventProposal) AfterDelete(tx *gorm.DB) (err error) {
	if p.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("proposal_id = ?", p.ID).Delete(&ApprovalStep{})
	tx.Clauses(clause.Returning{}).Where("proposal_id = ?", p.ID).Delete(&EventQuery{})
	tx.Clauses(clause.Returning{}).Where("proposal_id = ?", p.ID).Delete(&EditRecord{})
	return
}

// StepFor returns the approval step belonging to the role, failing fast on
// roles outside the chain or a malformed chain.
func (p *EventProposal) StepFor(role models.Role) (*ApprovalStep, error) {
	if !role.InHierarchy() {
		return nil, models.ErrInvalidRole
	}
	for k := range p.Approvals {
		if p.Approvals[k].Role == role {
			return &p.Approvals[k], nil
		}
	}
	return nil, models.ErrInvalidRole
}

// PredecessorsApproved reports whether every hierarchy role strictly before
// the given role has an approved step.
func (p *EventProposal) PredecessorsApproved(role models.Role) bool {
	idx, ok := role.HierarchyIndex()
	if !ok {
		return false
	}
	for _, step := range p.Approvals {
		if step.RoleIndex < idx && step.Status != models.ApprovalStatusApproved {
			return false
		}
	}
	return true
}

func (p *EventProposal) AllApproved() bool {
	if len(p.Approvals) != len(models.ApprovalHierarchy) {
		return false
	}
	for _, step := range p.Approvals {
		if step.Status != models.ApprovalStatusApproved {
			return false
		}
	}
	return true
}

func (p *EventProposal) IsRejected() bool {
	for _, step := range p.Approvals {
		if step.Status == models.ApprovalStatusRejected {
			return true
		}
	}
	return false
}

func (p *EventProposal) QueryByID(queryID string) (*EventQuery, error) {
	for k := range p.Queries {
		if p.Queries[k].ID == queryID {
			return &p.Queries[k], nil
		}
	}
	return nil, models.ErrNotFound
}

// NewApprovalChain builds the initial step list: the owner's own step is
// approved at creation, every other role starts pending.
func NewApprovalChain(proposalID string) []ApprovalStep {
	steps := make([]ApprovalStep, 0, len(models.ApprovalHierarchy))
	for i, role := range models.ApprovalHierarchy {
		status := models.ApprovalStatusPending
		if role.IsOwnerRole() {
			status = models.ApprovalStatusApproved
		}
		steps = append(steps, ApprovalStep{
			ProposalID: proposalID,
			Role:       role,
			RoleIndex:  i,
			Status:     status,
		})
	}
	return steps
}
