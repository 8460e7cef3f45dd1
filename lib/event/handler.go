package eventhandler

import (
	"fmt"
	"reflect"

	"campus-workflow-backend/db"
	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/lib/notify"
	usersstore "campus-workflow-backend/lib/users/store"
	"campus-workflow-backend/lib/utils/helpers"
	"campus-workflow-backend/models"
	eventapimodels "campus-workflow-backend/models/api/event"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const editReason = "Proposal edited by owner"

type Provider interface {
	Create(ownerID string, data eventapimodels.EventProposalCreateData) (id string, err error)
	GetByID(id string) (item eventapimodels.EventProposalView, err error)
	ListByOwner(ownerID string) (list []eventapimodels.EventProposalView, err error)
	Edit(id, editorUserID string, editorRole models.Role, data eventapimodels.EventProposalEditData) error
	EditHistory(id string) (list []eventapimodels.EditRecordView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:      eventstore.NewInstance(db.DB),
		usersStore: usersstore.NewInstance(db.DB),
		txRunner: func(fn func(store eventstore.Provider) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(eventstore.NewInstance(tx))
			})
		},
	}
}

type impl struct {
	store      eventstore.Provider
	usersStore usersstore.Provider
	txRunner   func(fn func(store eventstore.Provider) error) error
}

func (i impl) Create(ownerID string, data eventapimodels.EventProposalCreateData) (id string, err error) {
	logger := log.WithField("owner_id", ownerID)
	semester := models.ClassifySemester(data.StartDate)
	rec := dbmodels.EventProposal{
		OwnerID:            ownerID,
		EventName:          data.EventName,
		ClubName:           data.ClubName,
		Category:           data.Category,
		Venue:              data.Venue,
		StartDate:          data.StartDate,
		EndDate:            data.EndDate,
		OrganizerName:      data.OrganizerName,
		OrganizerEmail:     data.OrganizerEmail,
		OrganizerPhone:     data.OrganizerPhone,
		Description:        data.Description,
		Budget:             budgetConvert(data.Budget),
		ExpectedBitsians:   data.ExpectedBitsians,
		ExpectedOutstation: data.ExpectedOutstation,
		Requirements:       data.Requirements,
		Semester:           semester.Semester,
		AcademicYear:       semester.AcademicYear,
		Status:             models.ProposalStatusOpen,
	}
	err = i.txRunner(func(store eventstore.Provider) error {
		id, err = store.Create(rec)
		if err != nil {
			logger.
				WithField("request", fmt.Sprintf("%+v", data)).
				WithError(err).
				Error("proposal creation failed")
			return err
		}
		return store.CreateSteps(dbmodels.NewApprovalChain(id))
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("rec_id", id).
		Info("event proposal created")

	// freshly created proposals wait on the second hierarchy role
	i.notifyNextApprover(rec, models.ApprovalHierarchy[1])
	return id, nil
}

func (i impl) GetByID(id string) (eventapimodels.EventProposalView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return eventapimodels.EventProposalView{}, err
	}
	return eventapimodels.EventProposalConvert(*rec), nil
}

func (i impl) ListByOwner(ownerID string) ([]eventapimodels.EventProposalView, error) {
	recList, err := i.store.ListByOwner(ownerID)
	if err != nil {
		log.
			WithField("owner_id", ownerID).
			WithError(err).
			Error("owner proposal list failed")
		return nil, err
	}
	result := make([]eventapimodels.EventProposalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, eventapimodels.EventProposalConvert(rec))
	}
	return result, nil
}

func (i impl) Edit(id, editorUserID string, editorRole models.Role, data eventapimodels.EventProposalEditData) error {
	logger := log.
		WithField("rec_id", id).
		WithField("editor_id", editorUserID)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if !editorRole.IsOwnerRole() {
		return errors.Wrap(models.ErrInvalidRole, "only the club secretary may edit a proposal")
	}
	if rec.OwnerID != editorUserID {
		return errors.Wrap(models.ErrInvalidRole, "only the proposal owner may edit it")
	}
	if rec.Status == models.ProposalStatusClosed {
		return errors.Wrap(models.ErrInvalidState, "closed proposals cannot be edited")
	}

	updMap, changes := BuildUpdates(rec, data)
	resetSteps := StepsToReset(rec)

	err = i.txRunner(func(store eventstore.Provider) error {
		if len(updMap) > 0 {
			if err := store.Update(id, updMap); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			_, err := store.CreateEditRecord(dbmodels.EditRecord{
				ProposalID: id,
				EditedBy:   editorUserID,
				Reason:     editReason,
				Changes: dbmodels.EntityChanges{
					Description: editReason,
					Data:        changes,
				},
			})
			if err != nil {
				return err
			}
		}
		for _, stepID := range resetSteps {
			err := store.UpdateStep(stepID, map[string]interface{}{
				"status":  models.ApprovalStatusPending,
				"comment": "",
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("proposal edit failed")
		return err
	}
	logger.
		WithField("changed_fields", len(changes)).
		Info("event proposal edited")
	return nil
}

func (i impl) EditHistory(id string) ([]eventapimodels.EditRecordView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	list, err := i.store.ListEditHistory(rec.ID)
	if err != nil {
		return nil, err
	}
	result := make([]eventapimodels.EditRecordView, 0, len(list))
	for _, item := range list {
		result = append(result, eventapimodels.EditRecordConvert(item))
	}
	return result, nil
}

func (i impl) getRec(id string) (*dbmodels.EventProposal, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.
			WithField("rec_id", id).
			WithError(err).
			Error("proposal lookup failed")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "event proposal not found")
	}
	return rec, nil
}

func (i impl) notifyNextApprover(rec dbmodels.EventProposal, role models.Role) {
	approver, err := i.usersStore.GetByRole(role, rec.Category)
	if err != nil || approver == nil {
		log.
			WithError(err).
			WithField("role", role).
			Warn("next approver lookup failed, notification skipped")
		return
	}
	subject, body := notify.NeedsReviewMsg(rec.EventName, role)
	notify.Instance.Send(approver.Email, subject, body)
}

func budgetConvert(lines []eventapimodels.BudgetLineData) dbmodels.BudgetLines {
	result := make(dbmodels.BudgetLines, 0, len(lines))
	for _, line := range lines {
		result = append(result, dbmodels.BudgetLine{Label: line.Label, Amount: line.Amount})
	}
	return result
}

// BuildUpdates diffs the provided partial update against the stored record.
// Dates are compared at day granularity, everything else structurally. A
// startDate change recomputes the cached semester bucket.
func BuildUpdates(rec *dbmodels.EventProposal, data eventapimodels.EventProposalEditData) (updMap map[string]interface{}, changes []dbmodels.FieldChanges) {
	updMap = map[string]interface{}{}
	changes = []dbmodels.FieldChanges{}

	diffString := func(field string, oldValue string, newValue *string) {
		if newValue == nil || *newValue == oldValue {
			return
		}
		updMap[field] = *newValue
		changes = append(changes, dbmodels.FieldChanges{Field: field, OldValue: oldValue, NewValue: *newValue})
	}
	diffInt := func(field string, oldValue int, newValue *int) {
		if newValue == nil || *newValue == oldValue {
			return
		}
		updMap[field] = *newValue
		changes = append(changes, dbmodels.FieldChanges{Field: field, OldValue: oldValue, NewValue: *newValue})
	}

	diffString("event_name", rec.EventName, data.EventName)
	diffString("club_name", rec.ClubName, data.ClubName)
	if data.Category != nil && *data.Category != rec.Category {
		updMap["category"] = *data.Category
		changes = append(changes, dbmodels.FieldChanges{Field: "category", OldValue: rec.Category, NewValue: *data.Category})
	}
	diffString("venue", rec.Venue, data.Venue)
	if data.StartDate != nil && !helpers.SameDay(*data.StartDate, rec.StartDate) {
		updMap["start_date"] = *data.StartDate
		changes = append(changes, dbmodels.FieldChanges{Field: "start_date", OldValue: rec.StartDate, NewValue: *data.StartDate})
		semester := models.ClassifySemester(*data.StartDate)
		updMap["semester"] = semester.Semester
		updMap["academic_year"] = semester.AcademicYear
	}
	if data.EndDate != nil && !helpers.SameDay(*data.EndDate, rec.EndDate) {
		updMap["end_date"] = *data.EndDate
		changes = append(changes, dbmodels.FieldChanges{Field: "end_date", OldValue: rec.EndDate, NewValue: *data.EndDate})
	}
	diffString("organizer_name", rec.OrganizerName, data.OrganizerName)
	diffString("organizer_email", rec.OrganizerEmail, data.OrganizerEmail)
	diffString("organizer_phone", rec.OrganizerPhone, data.OrganizerPhone)
	diffString("description", rec.Description, data.Description)
	if data.Budget != nil {
		newBudget := budgetConvert(*data.Budget)
		if !reflect.DeepEqual(newBudget, rec.Budget) {
			updMap["budget"] = newBudget
			changes = append(changes, dbmodels.FieldChanges{Field: "budget", OldValue: rec.Budget, NewValue: newBudget})
		}
	}
	diffInt("expected_bitsians", rec.ExpectedBitsians, data.ExpectedBitsians)
	diffInt("expected_outstation", rec.ExpectedOutstation, data.ExpectedOutstation)
	if data.Requirements != nil {
		newTags := dbmodels.StringList(*data.Requirements)
		if !reflect.DeepEqual(newTags, rec.Requirements) {
			updMap["requirements"] = newTags
			changes = append(changes, dbmodels.FieldChanges{Field: "requirements", OldValue: rec.Requirements, NewValue: newTags})
		}
	}
	return updMap, changes
}

// StepsToReset lists the step ids an edit must re-open: every non-owner step
// whose status is neither Approved nor Query goes back to Pending. Granted
// approvals and in-flight queries survive edits.
func StepsToReset(rec *dbmodels.EventProposal) []string {
	result := []string{}
	for _, step := range rec.Approvals {
		if step.Role.IsOwnerRole() {
			continue
		}
		if step.Status == models.ApprovalStatusApproved || step.Status == models.ApprovalStatusQuery {
			continue
		}
		if step.Status == models.ApprovalStatusPending && step.Comment == "" {
			continue
		}
		result = append(result, step.ID)
	}
	return result
}
