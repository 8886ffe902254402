package adherence

import (
	"sort"
	"time"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
)

type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradePoor      Grade = "poor"
	GradeNoData    Grade = "no_data"
)

const (
	ThresholdExcellent = 95.0
	ThresholdGood      = 85.0
	ThresholdFair      = 70.0
)

type DayStatus string

const (
	DayTaken   DayStatus = "taken"
	DayMissed  DayStatus = "missed"
	DayPartial DayStatus = "partial"
)

type Summary struct {
	Taken       int     `json:"taken"`
	Missed      int     `json:"missed"`
	Percent     float64 `json:"percent"`
	Grade       Grade   `json:"grade"`
	Verified    int     `json:"verified"`
	FacePercent float64 `json:"facePercent"`
	IRPercent   float64 `json:"irPercent"`
	LoadPercent float64 `json:"loadPercent"`
}

// Report is the adherence view served to the caregiver dashboard.
type Report struct {
	Summary
	Days []Day `json:"days"`
}

type Day struct {
	Date   string    `json:"date"`
	Taken  int       `json:"taken"`
	Missed int       `json:"missed"`
	Status DayStatus `json:"status"`
}

func GradeFor(percent float64) Grade {
	switch {
	case percent >= ThresholdExcellent:
		return GradeExcellent
	case percent >= ThresholdGood:
		return GradeGood
	case percent >= ThresholdFair:
		return GradeFair
	default:
		return GradePoor
	}
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func Summarize(events []models.IntakeEvent) Summary {
	var s Summary

	verified := common.Filter(events, func(e models.IntakeEvent) bool { return e.Verification != nil })
	for _, e := range events {
		switch e.Event {
		case models.IntakeTaken:
			s.Taken++
		case models.IntakeMissed:
			s.Missed++
		}
	}

	s.Grade = GradeNoData
	if total := s.Taken + s.Missed; total > 0 {
		s.Percent = percentOf(s.Taken, total)
		s.Grade = GradeFor(s.Percent)
	}

	s.Verified = len(verified)
	s.FacePercent = percentOf(common.CountIf(verified, func(e models.IntakeEvent) bool { return e.Verification.Face }), s.Verified)
	s.IRPercent = percentOf(common.CountIf(verified, func(e models.IntakeEvent) bool { return e.Verification.IR }), s.Verified)
	s.LoadPercent = percentOf(common.CountIf(verified, func(e models.IntakeEvent) bool { return e.Verification.Load }), s.Verified)

	return s
}

// Daily buckets events by calendar day in loc, oldest first.
func Daily(events []models.IntakeEvent, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}

	byDate := map[string]*Day{}
	for _, e := range events {
		key := e.Timestamp.In(loc).Format(time.DateOnly)
		d, ok := byDate[key]
		if !ok {
			d = &Day{Date: key}
			byDate[key] = d
		}
		if e.Event == models.IntakeTaken {
			d.Taken++
		} else {
			d.Missed++
		}
	}

	days := make([]Day, 0, len(byDate))
	for _, d := range byDate {
		switch {
		case d.Missed == 0:
			d.Status = DayTaken
		case d.Taken == 0:
			d.Status = DayMissed
		default:
			d.Status = DayPartial
		}
		days = append(days, *d)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func Build(events []models.IntakeEvent, loc *time.Location) Report {
	return Report{Summary: Summarize(events), Days: Daily(events, loc)}
}
