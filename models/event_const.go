package models

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
	ApprovalStatusQuery    ApprovalStatus = "QUERY"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:  "Pending",
	ApprovalStatusApproved: "Approved",
	ApprovalStatusRejected: "Rejected",
	ApprovalStatusQuery:    "Query raised",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type ProposalStatus string

const (
	ProposalStatusOpen   ProposalStatus = "OPEN"
	ProposalStatusClosed ProposalStatus = "CLOSED"
)

type QueryStatus string

const (
	QueryStatusPending  QueryStatus = "PENDING"
	QueryStatusAnswered QueryStatus = "ANSWERED"
)

type ApprovalDecision string

const (
	DecisionApproved ApprovalDecision = "APPROVED"
	DecisionRejected ApprovalDecision = "REJECTED"
)

func (d ApprovalDecision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// sort orders supported by the listing engine
type ListSort string

const (
	SortByStartDateDesc ListSort = "START_DATE_DESC"
	SortByStartDateAsc  ListSort = "START_DATE_ASC"
	SortByName          ListSort = "NAME"
)

const SystemUser = "System"
