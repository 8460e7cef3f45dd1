package models

import (
	"fmt"
	"time"
)

// SemesterInfo is derived from the event start date and cached on the
// proposal record.
type SemesterInfo struct {
	Semester     string
	AcademicYear string
}

// ClassifySemester buckets a date into a semester label and academic year.
// The academic year runs August through July of the following calendar year:
// August-December falls in "Autumn {Y}-{Y+1}", January-July in
// "Spring {Y-1}-{Y}".
func ClassifySemester(date time.Time) SemesterInfo {
	year := date.Year()
	if date.Month() >= time.August {
		span := fmt.Sprintf("%d-%d", year, year+1)
		return SemesterInfo{
			Semester:     "Autumn " + span,
			AcademicYear: span,
		}
	}
	span := fmt.Sprintf("%d-%d", year-1, year)
	return SemesterInfo{
		Semester:     "Spring " + span,
		AcademicYear: span,
	}
}
