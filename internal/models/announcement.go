package models

// Announcement is a calendar note keyed by date.
type Announcement struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// AnnouncementRequest is the payload for creating or editing an announcement.
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}
