package models

// ScheduleItem is a slot of the weekly class schedule, applied to every weekday.
type ScheduleItem struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
}

// ScheduleItemRequest is the payload for adding or editing a slot.
type ScheduleItemRequest struct {
	Time    string `json:"time" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Teacher string `json:"teacher" validate:"required"`
}
