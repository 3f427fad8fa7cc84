package repository

import "github.com/noah-isme/rcc-portal/internal/models"

// TeacherID identifies the single teacher account.
const TeacherID = "t1"

// SeedTeacher returns the fixed teacher identity.
func SeedTeacher() models.User {
	return models.User{ID: TeacherID, Name: "Raghubir Sir", Mobile: "9876543210", Role: models.RoleTeacher}
}

func SeedStudents() []models.User {
	return []models.User{
		{ID: "s1", Name: "Sidharth Kumar", Mobile: "8409313191", Role: models.RoleStudent, Batch: ptr("A"), Class: ptr("10"), Section: ptr("Science")},
		{ID: "s2", Name: "Anjali Sharma", Mobile: "9988776655", Role: models.RoleStudent, Batch: ptr("B"), Class: ptr("12"), Section: ptr("Commerce")},
		{ID: "s3", Name: "Rohan Mehta", Mobile: "8877665544", Role: models.RoleStudent, Batch: ptr("A"), Class: ptr("10"), Section: ptr("Science")},
	}
}

func SeedAttendance() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		{ID: "a1", StudentID: "s1", Date: "2023-10-01", Status: models.AttendancePresent},
		{ID: "a2", StudentID: "s1", Date: "2023-10-02", Status: models.AttendancePresent},
		{ID: "a3", StudentID: "s1", Date: "2023-10-03", Status: models.AttendanceAbsent},
		{ID: "a4", StudentID: "s1", Date: "2023-10-04", Status: models.AttendancePresent},
	}
}

func SeedTests() []models.TestRecord {
	return []models.TestRecord{
		{ID: "tr1", StudentID: "s1", Subject: "Mathematics", Date: "2023-09-25", MarksObtained: 85, TotalMarks: 100, Grade: "A"},
		{ID: "tr2", StudentID: "s1", Subject: "Physics", Date: "2023-10-01", MarksObtained: 78, TotalMarks: 100, Grade: "B"},
		{ID: "tr3", StudentID: "s1", Subject: "Chemistry", Date: "2023-10-08", MarksObtained: 92, TotalMarks: 100, Grade: "A+"},
	}
}

func SeedPayments() []models.PaymentRecord {
	return []models.PaymentRecord{
		{ID: "p1", StudentID: "s1", Amount: 5000, Date: "2023-09-01", Status: models.PaymentSuccess, Description: "Monthly Fees - Sep", TransactionID: ptr("TXN84920184"), PaymentMethod: ptr("UPI / GPay")},
		{ID: "p2", StudentID: "s1", Amount: 5000, Date: "2023-10-01", Status: models.PaymentSuccess, Description: "Monthly Fees - Oct", TransactionID: ptr("TXN91028472"), PaymentMethod: ptr("UPI / PhonePe")},
	}
}

func SeedSchedule() []models.ScheduleItem {
	return []models.ScheduleItem{
		{ID: "sch1", Time: "04:00 PM", Subject: "Mathematics", Teacher: "Raghubir Sir"},
		{ID: "sch2", Time: "05:30 PM", Subject: "Physics", Teacher: "Sharma Sir"},
		{ID: "sch3", Time: "07:00 PM", Subject: "Chemistry", Teacher: "Verma Mam"},
	}
}

func SeedAnnouncements() []models.Announcement {
	return []models.Announcement{
		{ID: "ann1", Title: "Weekly Test Schedule", Date: "2023-11-20", Message: "Physics test on kinematics scheduled for Friday."},
		{ID: "ann2", Title: "Diwali Holidays", Date: "2023-11-19", Message: "Classes will remain closed from Nov 10th to Nov 15th."},
		{ID: "ann3", Title: "Fee Payment Reminder", Date: "2023-11-18", Message: "October month fees are due. Please clear before 10th."},
	}
}

func ptr(s string) *string {
	return &s
}
