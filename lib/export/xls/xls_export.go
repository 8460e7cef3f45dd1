package xlsexport

import (
	"bytes"
	"fmt"

	"campus-workflow-backend/models"
	eventapimodels "campus-workflow-backend/models/api/event"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportProposalList(list []eventapimodels.EventProposalView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var proposalHeaders = []string{"Event", "Club", "Category", "Venue", "Dates", "Organizer", "Budget total", "Semester", "Status", "Chain progress"}

func (i impl) ExportProposalList(list []eventapimodels.EventProposalView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx file close failed")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, proposalHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header writing failed")
	}
	if len(list) != 0 {
		row, err = writeProposalData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "xlsx data writing failed")
		}
	}
	f.SetSheetName(sheet, "Event proposals")
	return f.WriteToBuffer()
}

func writeProposalData(f *excelize.File, sheet string, list []eventapimodels.EventProposalView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(proposalHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		col := 1
		if err := writeColumn(f, sheet, col, row, item.EventName); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.ClubName); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, string(item.Category)); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.Venue); err != nil {
			return row, err
		}

		col++
		dates := fmt.Sprintf("%v - %v", item.StartDate.Format("02.01.2006"), item.EndDate.Format("02.01.2006"))
		if err := writeColumn(f, sheet, col, row, dates); err != nil {
			return row, err
		}

		col++
		organizer := fmt.Sprintf("%v\r%v", item.OrganizerName, item.OrganizerEmail)
		if err := writeColumn(f, sheet, col, row, organizer); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.BudgetTotal); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, item.Semester); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		col++
		if err := writeColumn(f, sheet, col, row, chainProgress(item)); err != nil {
			return row, err
		}
	}
	return row, nil
}

func chainProgress(item eventapimodels.EventProposalView) string {
	approved := 0
	for _, step := range item.Approvals {
		if step.Status != models.ApprovalStatusApproved {
			break
		}
		approved++
	}
	return fmt.Sprintf("%d/%d approved", approved, len(item.Approvals))
}
