package models

type Role string

const (
	RoleClubSecretary    Role = "CLUB_SECRETARY"
	RoleGeneralSecretary Role = "GENERAL_SECRETARY"
	RoleTreasurer        Role = "TREASURER"
	RolePresident        Role = "PRESIDENT"
	RoleFacultyInCharge  Role = "FACULTY_IN_CHARGE"
	RoleAssociateDean    Role = "ASSOCIATE_DEAN"
	RoleDean             Role = "DEAN"
	RoleARSW             Role = "ARSW"
	RoleWarden           Role = "WARDEN"
	RoleSecurity         Role = "SECURITY"
)

// ApprovalHierarchy is the fixed, ordered chain of roles that must each
// approve an event proposal. Index = priority.
var ApprovalHierarchy = []Role{
	RoleClubSecretary,
	RoleGeneralSecretary,
	RoleTreasurer,
	RolePresident,
	RoleFacultyInCharge,
	RoleAssociateDean,
	RoleDean,
}

var hierarchyIndex = func() map[Role]int {
	m := make(map[Role]int, len(ApprovalHierarchy))
	for i, role := range ApprovalHierarchy {
		m[role] = i
	}
	return m
}()

// oversight roles may close fully-approved events and raise post-approval queries
var oversightRoles = map[Role]bool{
	RoleAssociateDean: true,
	RoleDean:          true,
	RoleARSW:          true,
}

var roleHumanName = map[Role]string{
	RoleClubSecretary:    "Club Secretary",
	RoleGeneralSecretary: "General Secretary",
	RoleTreasurer:        "Treasurer",
	RolePresident:        "President",
	RoleFacultyInCharge:  "Faculty In-Charge",
	RoleAssociateDean:    "Associate Dean",
	RoleDean:             "Dean",
	RoleARSW:             "ARSW",
	RoleWarden:           "Warden",
	RoleSecurity:         "Security",
}

func (r Role) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

// HierarchyIndex returns the role position in the approval chain,
// ok=false for roles outside the chain.
func (r Role) HierarchyIndex() (idx int, ok bool) {
	idx, ok = hierarchyIndex[r]
	return idx, ok
}

func (r Role) InHierarchy() bool {
	_, ok := hierarchyIndex[r]
	return ok
}

func (r Role) IsOversight() bool {
	return oversightRoles[r]
}

func (r Role) IsOwnerRole() bool {
	return r == RoleClubSecretary
}

func LastHierarchyRole() Role {
	return ApprovalHierarchy[len(ApprovalHierarchy)-1]
}

type EventCategory string

const (
	EventCategoryTechnical EventCategory = "TECHNICAL"
	EventCategoryCultural  EventCategory = "CULTURAL"
	EventCategorySports    EventCategory = "SPORTS"
)

func (c EventCategory) IsValid() bool {
	switch c {
	case EventCategoryTechnical, EventCategoryCultural, EventCategorySports:
		return true
	}
	return false
}
