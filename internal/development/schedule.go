package development

import (
	"time"

	"github.com/hatchend/feasibility/pkg/datetime"
)

// Phase is one bar of the project programme, in months from the start.
type Phase struct {
	Name        string `json:"name"`
	StartMonth  int    `json:"startMonth"`
	FinishMonth int    `json:"finishMonth"`
	Start       string `json:"start"`
	Finish      string `json:"finish"`
}

// Milestone is a dated programme event.
type Milestone struct {
	Name  string `json:"name"`
	Month int    `json:"month"`
	Date  string `json:"date"`
}

// Schedule is the indicative programme for the project duration.
type Schedule struct {
	Phases     []Phase     `json:"phases"`
	Milestones []Milestone `json:"milestones"`
}

// BuildSchedule lays out the acquisition, planning, design, construction and
// marketing phases for a project of the given length. Design overlaps the
// last planning month and construction overlaps design by a month. Dates are
// rendered from the first of start's month.
func BuildSchedule(duration int, start time.Time) Schedule {
	acquisition := 1
	planning := min(6, duration/4)
	design := min(4, duration/6)
	construction := max(duration-planning-design-acquisition-2, duration/2)

	afterDesign := acquisition + planning + design
	at := func(months int) string {
		return datetime.FormatOffset(start, months)
	}
	phase := func(name string, from, to int) Phase {
		return Phase{Name: name, StartMonth: from, FinishMonth: to, Start: at(from), Finish: at(to)}
	}
	milestone := func(name string, month int) Milestone {
		return Milestone{Name: name, Month: month, Date: at(month)}
	}

	return Schedule{
		Phases: []Phase{
			phase("Acquisition", 0, acquisition),
			phase("Planning", acquisition, acquisition+planning),
			phase("Design", acquisition+planning-1, afterDesign-1),
			phase("Construction", afterDesign-2, afterDesign+construction-2),
			phase("Marketing & Sales", afterDesign+construction-4, duration),
		},
		Milestones: []Milestone{
			milestone("Land Acquisition Complete", acquisition),
			milestone("Planning Permission Granted", acquisition+planning),
			milestone("Design Complete", afterDesign-1),
			milestone("Construction Start", afterDesign-2),
			milestone("Superstructure Complete", afterDesign+construction/3),
			milestone("Building Watertight", afterDesign+construction/2),
			milestone("Fit-out Complete", afterDesign+construction-1),
			milestone("Practical Completion", afterDesign+construction),
			milestone("Marketing Launch", afterDesign+construction-4),
			milestone("First Sale/Letting", afterDesign+construction-2),
			milestone("Project Completion", duration),
		},
	}
}
