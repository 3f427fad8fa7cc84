package models

// PaymentStatus tracks the verification state of a fee payment.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentPending PaymentStatus = "PENDING"
	PaymentFailed  PaymentStatus = "FAILED"
)

// PaymentRecord is an entry of the fee ledger. Optional fields are nil when absent.
type PaymentRecord struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"studentId"`
	Amount        float64       `json:"amount"`
	Date          string        `json:"date"`
	Status        PaymentStatus `json:"status"`
	Description   string        `json:"description"`
	TransactionID *string       `json:"transactionId,omitempty"`
	PaymentMethod *string       `json:"paymentMethod,omitempty"`
	ProofImage    *string       `json:"proofImage,omitempty"`
}

// RecordPaymentRequest is submitted together with a screenshot of the transfer.
type RecordPaymentRequest struct {
	StudentID     string  `json:"studentId"`
	Amount        float64 `json:"amount" validate:"omitempty,gt=0"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID *string `json:"transactionId"`
	ProofImage    string  `json:"proofImage" validate:"required"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	StudentID string
	Status    PaymentStatus
}

// PaymentSummary aggregates the fee ledger for the caller.
type PaymentSummary struct {
	PaidTotal          float64 `json:"paidTotal"`
	Target             float64 `json:"target"`
	ProgressPercent    float64 `json:"progressPercent"`
	MonthRevenue       float64 `json:"monthRevenue"`
	LifetimeRevenue    float64 `json:"lifetimeRevenue"`
	PendingAmount      float64 `json:"pendingAmount"`
	SuccessCount       int     `json:"successCount"`
	PendingCount       int     `json:"pendingCount"`
	Month              string  `json:"month"`
	Delinquent         bool    `json:"delinquent"`
	HasPendingApproval bool    `json:"hasPendingApproval"`
}

// ReminderRequest asks for automated fee reminders. An empty StudentID targets every delinquent student.
type ReminderRequest struct {
	StudentID string `json:"studentId"`
	Month     string `json:"month" validate:"omitempty,datetime=2006-01"`
}

// ReminderResult reports which students were sent (or queued) a reminder.
type ReminderResult struct {
	Month    string   `json:"month"`
	Students []string `json:"students"`
	Queued   bool     `json:"queued"`
}
