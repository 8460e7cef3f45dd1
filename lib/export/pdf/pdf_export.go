package pdfexport

import (
	"bytes"
	"fmt"

	dbmodels "campus-workflow-backend/models/db"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// GenerateProposalSummary renders one event proposal as a printable sheet:
// details, budget breakdown, and the approval chain with statuses.
func GenerateProposalSummary(rec dbmodels.EventProposal) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateProposalSummary panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, rec.EventName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	writeDetail(pdf, "Club", rec.ClubName)
	writeDetail(pdf, "Category", string(rec.Category))
	writeDetail(pdf, "Venue", rec.Venue)
	writeDetail(pdf, "Dates", fmt.Sprintf("%v - %v", rec.StartDate.Format("02.01.2006"), rec.EndDate.Format("02.01.2006")))
	writeDetail(pdf, "Semester", rec.Semester)
	writeDetail(pdf, "Organizer", fmt.Sprintf("%v (%v)", rec.OrganizerName, rec.OrganizerEmail))
	writeDetail(pdf, "Expected participants", fmt.Sprintf("%d campus, %d outstation", rec.ExpectedBitsians, rec.ExpectedOutstation))
	if rec.Description != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 5, rec.Description, "", "L", false)
	}

	if len(rec.Budget) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Budget", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range rec.Budget {
			pdf.CellFormat(120, 6, line.Label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", line.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(120, 6, "Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", rec.Budget.Total()), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Approval chain", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, step := range rec.Approvals {
		pdf.CellFormat(80, 6, step.Role.ToHuman(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, step.Status.ToHuman(), "1", 0, "L", false, 0, "")
		decided := ""
		if step.DecidedAt != nil {
			decided = step.DecidedAt.Format("02.01.2006")
		}
		pdf.CellFormat(40, 6, decided, "1", 1, "L", false, 0, "")
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDetail(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
