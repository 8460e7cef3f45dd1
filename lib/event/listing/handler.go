package listinghandler

import (
	"time"

	"campus-workflow-backend/db"
	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/models"
	apimodels "campus-workflow-backend/models/api"
	eventapimodels "campus-workflow-backend/models/api/event"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	ListPending(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error)
	ListApproved(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error)
	ListRejected(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error)
	ListClosed(callerRole models.Role, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error)
	SemesterOptions() ([]dbmodels.SemesterOption, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: eventstore.NewInstance(db.DB),
		now:   time.Now,
	}
}

type impl struct {
	store eventstore.Provider
	now   func() time.Time
}

// PendingVisible is the sequential-gating predicate: a proposal shows up in
// a role's pending list only when that role's step awaits a decision (or
// holds an open query) and every earlier role has approved.
func PendingVisible(rec dbmodels.EventProposal, role models.Role) bool {
	step, err := rec.StepFor(role)
	if err != nil {
		return false
	}
	if step.Status != models.ApprovalStatusPending && step.Status != models.ApprovalStatusQuery {
		return false
	}
	return rec.PredecessorsApproved(role)
}

// ApprovedVisible keeps proposals the role has approved that are still open
// and whose end date has not passed.
func ApprovedVisible(rec dbmodels.EventProposal, role models.Role, now time.Time) bool {
	step, err := rec.StepFor(role)
	if err != nil {
		return false
	}
	if step.Status != models.ApprovalStatusApproved {
		return false
	}
	if rec.Status == models.ProposalStatusClosed {
		return false
	}
	return !rec.EndDate.Before(now)
}

func RejectedVisible(rec dbmodels.EventProposal, role models.Role) bool {
	step, err := rec.StepFor(role)
	if err != nil {
		return false
	}
	return step.Status == models.ApprovalStatusRejected
}

func (i impl) ListPending(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error) {
	if !role.InHierarchy() {
		return eventapimodels.ProposalListResult{}, errors.Wrap(models.ErrInvalidRole, "role has no pending list")
	}
	storeFilter := i.storeFilter(role, category, filter)
	storeFilter.Status = models.ProposalStatusOpen
	return i.list(storeFilter, filter.Pagination, func(rec dbmodels.EventProposal) bool {
		return PendingVisible(rec, role)
	})
}

func (i impl) ListApproved(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error) {
	if !role.InHierarchy() {
		return eventapimodels.ProposalListResult{}, errors.Wrap(models.ErrInvalidRole, "role has no approved list")
	}
	now := i.now()
	storeFilter := i.storeFilter(role, category, filter)
	return i.list(storeFilter, filter.Pagination, func(rec dbmodels.EventProposal) bool {
		return ApprovedVisible(rec, role, now)
	})
}

func (i impl) ListRejected(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error) {
	if !role.InHierarchy() {
		return eventapimodels.ProposalListResult{}, errors.Wrap(models.ErrInvalidRole, "role has no rejected list")
	}
	storeFilter := i.storeFilter(role, category, filter)
	return i.list(storeFilter, filter.Pagination, func(rec dbmodels.EventProposal) bool {
		return RejectedVisible(rec, role)
	})
}

func (i impl) ListClosed(callerRole models.Role, filter eventapimodels.ProposalFilter) (eventapimodels.ProposalListResult, error) {
	if !callerRole.IsOversight() {
		return eventapimodels.ProposalListResult{}, errors.Wrap(models.ErrInvalidRole, "only oversight roles may list closed events")
	}
	storeFilter := dbmodels.ProposalFilter{
		Search:       filter.Search,
		Semester:     filter.Semester,
		AcademicYear: filter.AcademicYear,
		Status:       models.ProposalStatusClosed,
		Sort:         filter.Sort,
	}
	return i.list(storeFilter, filter.Pagination, func(rec dbmodels.EventProposal) bool {
		return true
	})
}

func (i impl) SemesterOptions() ([]dbmodels.SemesterOption, error) {
	list, err := i.store.SemesterOptions()
	if err != nil {
		log.WithError(err).Error("semester options lookup failed")
		return nil, err
	}
	return list, nil
}

// the general secretary role is split across three sub-categories; a
// supplied category narrows that role's lists
func (i impl) storeFilter(role models.Role, category models.EventCategory, filter eventapimodels.ProposalFilter) dbmodels.ProposalFilter {
	storeFilter := dbmodels.ProposalFilter{
		Search:       filter.Search,
		Semester:     filter.Semester,
		AcademicYear: filter.AcademicYear,
		Sort:         filter.Sort,
	}
	if role == models.RoleGeneralSecretary && category != "" {
		storeFilter.Category = category
	}
	return storeFilter
}

func (i impl) list(storeFilter dbmodels.ProposalFilter, pagination apimodels.Pagination, visible func(rec dbmodels.EventProposal) bool) (eventapimodels.ProposalListResult, error) {
	recList, err := i.store.List(storeFilter)
	if err != nil {
		log.WithError(err).Error("proposal list failed")
		return eventapimodels.ProposalListResult{}, err
	}
	matched := make([]dbmodels.EventProposal, 0, len(recList))
	for _, rec := range recList {
		if visible(rec) {
			matched = append(matched, rec)
		}
	}
	page, limit := pagination.GetPage()
	pageRecs, pageInfo := Paginate(matched, page, limit)
	views := make([]eventapimodels.EventProposalView, 0, len(pageRecs))
	for _, rec := range pageRecs {
		views = append(views, eventapimodels.EventProposalConvert(rec))
	}
	return eventapimodels.ProposalListResult{
		Applications:      views,
		GroupedBySemester: GroupBySemester(views),
		Pagination:        pageInfo,
	}, nil
}

// Paginate slices one page out of the visible set and builds the envelope.
func Paginate(list []dbmodels.EventProposal, page, limit int) ([]dbmodels.EventProposal, apimodels.PageInfo) {
	totalCount := int64(len(list))
	pageInfo := apimodels.NewPageInfo(page, limit, totalCount)
	offset := (page - 1) * limit
	if offset >= len(list) {
		return []dbmodels.EventProposal{}, pageInfo
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], pageInfo
}

// GroupBySemester buckets one result page by semester label, preserving the
// page order both across and inside groups.
func GroupBySemester(views []eventapimodels.EventProposalView) []eventapimodels.SemesterGroup {
	groups := []eventapimodels.SemesterGroup{}
	index := map[string]int{}
	for _, view := range views {
		k, ok := index[view.Semester]
		if !ok {
			groups = append(groups, eventapimodels.SemesterGroup{Semester: view.Semester})
			k = len(groups) - 1
			index[view.Semester] = k
		}
		groups[k].Applications = append(groups[k].Applications, view)
	}
	return groups
}
