package projector

import (
	"time"

	"zenflow/internal/model"
)

// GanttScale holds the pixel constants of the timeline.
type GanttScale struct {
	PxPerDay  float64 `json:"pxPerDay"`
	MinBarPx  float64 `json:"minBarPx"`
	PaddingPx float64 `json:"paddingPx"`
}

var DefaultGanttScale = GanttScale{PxPerDay: 40, MinBarPx: 40, PaddingPx: 20}

type GanttBar struct {
	Task         model.Task `json:"task"`
	OffsetDays   int        `json:"offsetDays"`
	DurationDays int        `json:"durationDays"`
	OffsetPx     float64    `json:"offsetPx"`
	WidthPx      float64    `json:"widthPx"`
	Done         bool       `json:"done"`
}

type Gantt struct {
	Start     string     `json:"start,omitempty"`
	End       string     `json:"end,omitempty"`
	TotalDays int        `json:"totalDays"`
	Scale     GanttScale `json:"scale"`
	Bars      []GanttBar `json:"bars"`
}

// BuildGantt lays out one bar per datable task on a shared day axis spanning the
// earliest to the latest date of any task. A task missing its start date starts on its
// due date and vice versa; a task with neither is left out.
func BuildGantt(tasks []model.Task, scale GanttScale) Gantt {
	if scale.PxPerDay <= 0 {
		scale = DefaultGanttScale
	}
	out := Gantt{TotalDays: 1, Scale: scale, Bars: []GanttBar{}}

	type span struct {
		task       model.Task
		start, due time.Time
	}
	var spans []span
	var minDate, maxDate time.Time
	for _, t := range tasks {
		start, okStart := model.ParseDate(t.StartDate)
		due, okDue := model.ParseDate(t.DueDate)
		switch {
		case !okStart && !okDue:
			continue
		case !okStart:
			start = due
		case !okDue:
			due = start
		}
		for _, d := range []time.Time{start, due} {
			if minDate.IsZero() || d.Before(minDate) {
				minDate = d
			}
			if maxDate.IsZero() || d.After(maxDate) {
				maxDate = d
			}
		}
		spans = append(spans, span{task: t, start: start, due: due})
	}
	if len(spans) == 0 {
		return out
	}

	out.Start = model.FormatDate(minDate)
	out.End = model.FormatDate(maxDate)
	out.TotalDays = max(1, model.DaysBetween(minDate, maxDate)+1)
	for _, s := range spans {
		offset := max(0, model.DaysBetween(minDate, s.start))
		dur := model.DaysBetween(s.start, s.due)
		out.Bars = append(out.Bars, GanttBar{
			Task:         s.task,
			OffsetDays:   offset,
			DurationDays: dur,
			OffsetPx:     float64(offset) * scale.PxPerDay,
			WidthPx:      max(scale.MinBarPx, float64(dur)*scale.PxPerDay+scale.PaddingPx),
			Done:         s.task.Status == model.StatusDone,
		})
	}
	return out
}

// WidthPx is the full pixel width of the time axis.
func (g Gantt) WidthPx() float64 {
	return float64(g.TotalDays) * g.Scale.PxPerDay
}
