package http

import (
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/schedule"
)

// StaffPath binds the staff member whose schedule is addressed.
type StaffPath struct {
	StaffID string `uri:"staff_id" binding:"required,uuid"`
}

type WeeklyWindowDTO struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

// SetWeeklyRequest replaces the whole weekly schedule. An empty list clears it.
type SetWeeklyRequest struct {
	Windows []WeeklyWindowDTO `json:"windows" binding:"omitempty,dive"`
}

func (r *SetWeeklyRequest) toModel() []schedule.WeeklyWindow {
	out := make([]schedule.WeeklyWindow, len(r.Windows))
	for i, w := range r.Windows {
		out[i] = schedule.WeeklyWindow{DayOfWeek: *w.DayOfWeek, StartTime: w.StartTime, EndTime: w.EndTime}
	}
	return out
}

type WeeklyResponse struct {
	StaffID string            `json:"staff_id"`
	Windows []WeeklyWindowDTO `json:"windows"`
}

func NewWeeklyResponse(staffID string, windows []schedule.WeeklyWindow) WeeklyResponse {
	items := make([]WeeklyWindowDTO, len(windows))
	for i, w := range windows {
		day := w.DayOfWeek
		items[i] = WeeklyWindowDTO{DayOfWeek: &day, StartTime: w.StartTime, EndTime: w.EndTime}
	}
	return WeeklyResponse{StaffID: staffID, Windows: items}
}

// ListOverridesRequest selects overrides by an inclusive date range.
type ListOverridesRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Validate parses both ends of the range.
func (r *ListOverridesRequest) Validate() (availability.Date, availability.Date, error) {
	from, err := availability.ParseDate(r.From)
	if err != nil {
		return availability.Date{}, availability.Date{}, err
	}
	to, err := availability.ParseDate(r.To)
	if err != nil {
		return availability.Date{}, availability.Date{}, err
	}
	return from, to, nil
}

type CreateOverrideRequest struct {
	Date      string  `json:"date" binding:"required"`
	Type      string  `json:"type" binding:"required,oneof=day_off time_off extra_work"`
	StartTime *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" binding:"omitempty,hhmm"`
	Reason    *string `json:"reason" binding:"omitempty,max=200"`
}

type OverrideResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Reason    *string   `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOverrideResponse(o *schedule.Override) OverrideResponse {
	return OverrideResponse{
		ID:        o.ID,
		StaffID:   o.StaffID,
		Date:      o.Date.String(),
		Type:      string(o.Type),
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt,
	}
}
