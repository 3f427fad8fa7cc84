package models

// StudentDashboard is the landing view for a student.
type StudentDashboard struct {
	Student         User            `json:"student"`
	AttendanceRate  int             `json:"attendanceRate"`
	AverageScore    int             `json:"averageScore"`
	PendingPayments []PaymentRecord `json:"pendingPayments"`
	HasPendingDues  bool            `json:"hasPendingDues"`
	Schedule        []ScheduleItem  `json:"schedule"`
	Announcements   []Announcement  `json:"announcements"`
	UnreadMessages  int             `json:"unreadMessages"`
	FeeProgress     float64         `json:"feeProgress"`
}

// TeacherDashboard is the landing view for the teacher.
type TeacherDashboard struct {
	TotalStudents   int             `json:"totalStudents"`
	AttendanceRate  int             `json:"attendanceRate"`
	AverageScore    int             `json:"averageScore"`
	PendingPayments []PaymentRecord `json:"pendingPayments"`
	DelinquentCount int             `json:"delinquentCount"`
	Schedule        []ScheduleItem  `json:"schedule"`
	Announcements   []Announcement  `json:"announcements"`
	UnreadMessages  int             `json:"unreadMessages"`
}

// Dashboard wraps the role specific landing view.
type Dashboard struct {
	Role    UserRole          `json:"role"`
	Student *StudentDashboard `json:"student,omitempty"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
}

// Insight is the generated performance summary for a student.
type Insight struct {
	StudentID string `json:"studentId"`
	Summary   string `json:"summary"`
	Cached    bool   `json:"cached"`
}
