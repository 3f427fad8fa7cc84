package models

// DayEvents lists what happens on a calendar day.
type DayEvents struct {
	Date          string         `json:"date"`
	Announcements []Announcement `json:"announcements"`
	HasClasses    bool           `json:"hasClasses"`
	Schedule      []ScheduleItem `json:"schedule,omitempty"`
}

// DayCell is one non-blank cell of the month grid.
type DayCell struct {
	Day               int    `json:"day"`
	Date              string `json:"date"`
	Weekday           int    `json:"weekday"`
	AnnouncementCount int    `json:"announcementCount"`
	HasClasses        bool   `json:"hasClasses"`
}

// MonthGrid lays out a month in Sunday-first weeks. Nil cells are blanks.
type MonthGrid struct {
	Year          int          `json:"year"`
	Month         int          `json:"month"`
	DaysInMonth   int          `json:"daysInMonth"`
	LeadingBlanks int          `json:"leadingBlanks"`
	Weeks         [][]*DayCell `json:"weeks"`
}
