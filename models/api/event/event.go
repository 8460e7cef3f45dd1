package eventapimodels

import (
	"time"

	"campus-workflow-backend/models"
	apimodels "campus-workflow-backend/models/api"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
)

type BudgetLineData struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type EventProposalCreateData struct {
	EventName          string               `json:"event_name"`
	ClubName           string               `json:"club_name"`
	Category           models.EventCategory `json:"category"`
	Venue              string               `json:"venue"`
	StartDate          time.Time            `json:"start_date"`
	EndDate            time.Time            `json:"end_date"`
	OrganizerName      string               `json:"organizer_name"`
	OrganizerEmail     string               `json:"organizer_email"`
	OrganizerPhone     string               `json:"organizer_phone"`
	Description        string               `json:"description"`
	Budget             []BudgetLineData     `json:"budget"`
	ExpectedBitsians   int                  `json:"expected_bitsians"`
	ExpectedOutstation int                  `json:"expected_outstation"`
	Requirements       []string             `json:"requirements"`
}

func (r EventProposalCreateData) Validate() error {
	if r.EventName == "" {
		return errors.New("event name is required")
	}
	if !r.Category.IsValid() {
		return errors.New("unknown event category")
	}
	if r.Venue == "" {
		return errors.New("venue is required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return errors.New("event dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return errors.New("event end date is before the start date")
	}
	if r.OrganizerEmail == "" {
		return errors.New("organizer email is required")
	}
	return nil
}

// EventProposalEditData carries partial updates; only non-nil fields are
// applied and diffed.
type EventProposalEditData struct {
	EventName          *string               `json:"event_name"`
	ClubName           *string               `json:"club_name"`
	Category           *models.EventCategory `json:"category"`
	Venue              *string               `json:"venue"`
	StartDate          *time.Time            `json:"start_date"`
	EndDate            *time.Time            `json:"end_date"`
	OrganizerName      *string               `json:"organizer_name"`
	OrganizerEmail     *string               `json:"organizer_email"`
	OrganizerPhone     *string               `json:"organizer_phone"`
	Description        *string               `json:"description"`
	Budget             *[]BudgetLineData     `json:"budget"`
	ExpectedBitsians   *int                  `json:"expected_bitsians"`
	ExpectedOutstation *int                  `json:"expected_outstation"`
	Requirements       *[]string             `json:"requirements"`
}

func (r EventProposalEditData) Validate() error {
	if r.EventName != nil && *r.EventName == "" {
		return errors.New("event name cannot be cleared")
	}
	if r.Category != nil && !r.Category.IsValid() {
		return errors.New("unknown event category")
	}
	if r.OrganizerEmail != nil && *r.OrganizerEmail == "" {
		return errors.New("organizer email cannot be cleared")
	}
	return nil
}

type ApprovalDecisionData struct {
	Decision models.ApprovalDecision `json:"decision"`
	Comment  string                  `json:"comment"`
}

func (r ApprovalDecisionData) Validate() error {
	if !r.Decision.IsValid() {
		return errors.New("decision must be APPROVED or REJECTED")
	}
	return nil
}

type QueryData struct {
	Text string `json:"text"`
}

func (r QueryData) Validate() error {
	if r.Text == "" {
		return errors.New("query text is required")
	}
	return nil
}

type QueryReplyData struct {
	Response string `json:"response"`
}

func (r QueryReplyData) Validate() error {
	if r.Response == "" {
		return errors.New("query response is required")
	}
	return nil
}

// CloseData optionally overrides the display name recorded on closure;
// the caller's full name is used when empty.
type CloseData struct {
	ClosedBy string `json:"closed_by"`
}

type ProposalFilter struct {
	Search       string          `json:"search"`
	Semester     string          `json:"semester"`
	AcademicYear string          `json:"academic_year"`
	Sort         models.ListSort `json:"sort"`
	apimodels.Pagination
}

type ApprovalStepView struct {
	Role      models.Role           `json:"role"`
	RoleName  string                `json:"role_name"`
	Status    models.ApprovalStatus `json:"status"`
	Comment   string                `json:"comment,omitempty"`
	DecidedAt *time.Time            `json:"decided_at,omitempty"`
}

type QueryView struct {
	ID             string             `json:"id"`
	AskerRole      models.Role        `json:"asker_role"`
	QueryText      string             `json:"query_text"`
	Status         models.QueryStatus `json:"status"`
	Response       string             `json:"response,omitempty"`
	RaisedAt       time.Time          `json:"raised_at"`
	AnsweredAt     *time.Time         `json:"answered_at,omitempty"`
	IsPostApproval bool               `json:"is_post_approval"`
}

type EditRecordView struct {
	EditedAt time.Time                `json:"edited_at"`
	EditedBy string                   `json:"edited_by"`
	Reason   string                   `json:"reason"`
	Changes  []dbmodels.FieldChanges  `json:"changes"`
}

type EventProposalView struct {
	ID                 string                `json:"id"`
	OwnerID            string                `json:"owner_id"`
	EventName          string                `json:"event_name"`
	ClubName           string                `json:"club_name"`
	Category           models.EventCategory  `json:"category"`
	Venue              string                `json:"venue"`
	StartDate          time.Time             `json:"start_date"`
	EndDate            time.Time             `json:"end_date"`
	OrganizerName      string                `json:"organizer_name"`
	OrganizerEmail     string                `json:"organizer_email"`
	OrganizerPhone     string                `json:"organizer_phone"`
	Description        string                `json:"description"`
	Budget             []BudgetLineData      `json:"budget"`
	BudgetTotal        float64               `json:"budget_total"`
	ExpectedBitsians   int                   `json:"expected_bitsians"`
	ExpectedOutstation int                   `json:"expected_outstation"`
	Requirements       []string              `json:"requirements"`
	Semester           string                `json:"semester"`
	AcademicYear       string                `json:"academic_year"`
	Status             models.ProposalStatus `json:"status"`
	ClosedBy           string                `json:"closed_by,omitempty"`
	ClosedAt           *time.Time            `json:"closed_at,omitempty"`
	Approvals          []ApprovalStepView    `json:"approvals"`
	Queries            []QueryView           `json:"queries"`
	CreatedAt          time.Time             `json:"created_at"`
}

// SemesterGroup groups one result page by semester label for display,
// preserving page order.
type SemesterGroup struct {
	Semester     string              `json:"semester"`
	Applications []EventProposalView `json:"applications"`
}

type ProposalListResult struct {
	Applications      []EventProposalView `json:"applications"`
	GroupedBySemester []SemesterGroup     `json:"grouped_by_semester"`
	Pagination        apimodels.PageInfo  `json:"pagination"`
}

func ApprovalStepConvert(rec dbmodels.ApprovalStep) ApprovalStepView {
	return ApprovalStepView{
		Role:      rec.Role,
		RoleName:  rec.Role.ToHuman(),
		Status:    rec.Status,
		Comment:   rec.Comment,
		DecidedAt: rec.DecidedAt,
	}
}

func QueryConvert(rec dbmodels.EventQuery) QueryView {
	return QueryView{
		ID:             rec.ID,
		AskerRole:      rec.AskerRole,
		QueryText:      rec.QueryText,
		Status:         rec.Status,
		Response:       rec.Response,
		RaisedAt:       rec.CreatedAt,
		AnsweredAt:     rec.AnsweredAt,
		IsPostApproval: rec.IsPostApproval,
	}
}

func EditRecordConvert(rec dbmodels.EditRecord) EditRecordView {
	return EditRecordView{
		EditedAt: rec.CreatedAt,
		EditedBy: rec.EditedBy,
		Reason:   rec.Reason,
		Changes:  rec.Changes.Data,
	}
}

func EventProposalConvert(rec dbmodels.EventProposal) EventProposalView {
	budget := make([]BudgetLineData, 0, len(rec.Budget))
	for _, line := range rec.Budget {
		budget = append(budget, BudgetLineData{Label: line.Label, Amount: line.Amount})
	}
	approvals := make([]ApprovalStepView, 0, len(rec.Approvals))
	for _, step := range rec.Approvals {
		approvals = append(approvals, ApprovalStepConvert(step))
	}
	queries := make([]QueryView, 0, len(rec.Queries))
	for _, query := range rec.Queries {
		queries = append(queries, QueryConvert(query))
	}
	return EventProposalView{
		ID:                 rec.ID,
		OwnerID:            rec.OwnerID,
		EventName:          rec.EventName,
		ClubName:           rec.ClubName,
		Category:           rec.Category,
		Venue:              rec.Venue,
		StartDate:          rec.StartDate,
		EndDate:            rec.EndDate,
		OrganizerName:      rec.OrganizerName,
		OrganizerEmail:     rec.OrganizerEmail,
		OrganizerPhone:     rec.OrganizerPhone,
		Description:        rec.Description,
		Budget:             budget,
		BudgetTotal:        rec.Budget.Total(),
		ExpectedBitsians:   rec.ExpectedBitsians,
		ExpectedOutstation: rec.ExpectedOutstation,
		Requirements:       rec.Requirements,
		Semester:           rec.Semester,
		AcademicYear:       rec.AcademicYear,
		Status:             rec.Status,
		ClosedBy:           rec.ClosedBy,
		ClosedAt:           rec.ClosedAt,
		Approvals:          approvals,
		Queries:            queries,
		CreatedAt:          rec.CreatedAt,
	}
}
