package notify

import (
	"fmt"

	"campus-workflow-backend/models"
)

func NeedsReviewMsg(eventName string, role models.Role) (subject, body string) {
	subject = "Event proposal awaiting your review"
	body = fmt.Sprintf("The event proposal %q is awaiting review by the %s.", eventName, role.ToHuman())
	return subject, body
}

func FullyApprovedMsg(eventName string) (subject, body string) {
	subject = "Event proposal fully approved"
	body = fmt.Sprintf("The event proposal %q has been approved by the complete chain of approvers.", eventName)
	return subject, body
}

func RejectedMsg(eventName string, role models.Role, comment string) (subject, body string) {
	subject = "Event proposal rejected"
	body = fmt.Sprintf("The event proposal %q was rejected by the %s.", eventName, role.ToHuman())
	if comment != "" {
		body += fmt.Sprintf(" Comment: %s", comment)
	}
	return subject, body
}

func QueryRaisedMsg(eventName string, role models.Role, text string) (subject, body string) {
	subject = "Query raised on your event proposal"
	body = fmt.Sprintf("The %s raised a query on the event proposal %q: %s", role.ToHuman(), eventName, text)
	return subject, body
}

func QueryAnsweredMsg(eventName, response string) (subject, body string) {
	subject = "Your query was answered"
	body = fmt.Sprintf("Your query on the event proposal %q was answered: %s", eventName, response)
	return subject, body
}

func PostApprovalQueryMsg(eventName string, role models.Role, text string) (subject, body string) {
	subject = "Post-approval query on your event"
	body = fmt.Sprintf("The %s raised a post-approval query on the event %q: %s", role.ToHuman(), eventName, text)
	return subject, body
}

func ClosedMsg(eventName, closedBy string) (subject, body string) {
	subject = "Event closed"
	body = fmt.Sprintf("The event %q has been closed by %s.", eventName, closedBy)
	return subject, body
}

func PendingReminderMsg(eventName string, role models.Role, pendingDays int) (subject, body string) {
	subject = "Reminder: event proposal awaiting your decision"
	body = fmt.Sprintf("The event proposal %q has been awaiting a decision by the %s for more than %d days.",
		eventName, role.ToHuman(), pendingDays)
	return subject, body
}
