package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/export"
)

// MonthlyFee is charged when a payment is submitted without an explicit amount.
const MonthlyFee = 5000

// PaymentHeaders is the fixed column order of payment exports.
var PaymentHeaders = []string{"Student", "Date", "Description", "Amount", "Status", "Transaction ID", "Method"}

type paymentStore interface {
	Payments() repository.Collection[models.PaymentRecord]
	Students() repository.Collection[models.User]
}

// PaymentConfig carries the fee targets used for progress.
type PaymentConfig struct {
	StudentTarget float64
	TeacherTarget float64
}

// PaymentService manages the fee ledger and the proof review workflow.
type PaymentService struct {
	store     paymentStore
	validator *validator.Validate
	logger    *zap.Logger
	config    PaymentConfig
	now       func() time.Time
}

// NewPaymentService constructs the payment service.
func NewPaymentService(store paymentStore, validate *validator.Validate, logger *zap.Logger, config PaymentConfig) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.StudentTarget <= 0 {
		config.StudentTarget = 60000
	}
	if config.TeacherTarget <= 0 {
		config.TeacherTarget = 180000
	}
	return &PaymentService{store: store, validator: validate, logger: logger, config: config, now: utcNow}
}

// CurrentMonth returns the YYYY-MM key for today.
func (s *PaymentService) CurrentMonth() string {
	return monthKey(s.now())
}

// List returns payments newest first as stored. Students only see their own.
func (s *PaymentService) List(ctx context.Context, actor models.Actor, filter models.PaymentFilter) ([]models.PaymentRecord, error) {
	studentID, err := scopeToActor(actor, filter.StudentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load payments")
	}
	result := make([]models.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if studentID != "" && p.StudentID != studentID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// RecordPayment stores a PENDING payment awaiting review of its proof image.
func (s *PaymentService) RecordPayment(ctx context.Context, actor models.Actor, req models.RecordPaymentRequest) (*models.PaymentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "a payment needs a positive amount and a proof screenshot")
	}
	studentID, err := scopeToActor(actor, req.StudentID)
	if err != nil {
		return nil, err
	}
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}

	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	if _, ok := findStudent(students, studentID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	now := s.now().UTC()
	record := models.PaymentRecord{
		ID:            repository.NewID("p"),
		StudentID:     studentID,
		Amount:        req.Amount,
		Date:          now.Format(dateLayout),
		Status:        models.PaymentPending,
		Description:   strings.TrimSpace(req.Description),
		TransactionID: req.TransactionID,
		ProofImage:    strPtr(req.ProofImage),
	}
	if record.Amount == 0 {
		record.Amount = MonthlyFee
	}
	if record.Description == "" {
		record.Description = "Monthly Fees - " + now.Month().String()
	}
	if method := strings.TrimSpace(req.PaymentMethod); method != "" {
		record.PaymentMethod = strPtr(method)
	}

	if _, err := s.store.Payments().Update(ctx, func(payments []models.PaymentRecord) ([]models.PaymentRecord, error) {
		return append([]models.PaymentRecord{record}, payments...), nil
	}); err != nil {
		return nil, storageFailure(err, "failed to save payment")
	}

	s.logger.Info("payment submitted for review", zap.String("payment_id", record.ID), zap.String("student_id", studentID), zap.Float64("amount", record.Amount))
	return &record, nil
}

// Approve moves a PENDING payment to SUCCESS. Approving an already successful payment
// returns it unchanged.
func (s *PaymentService) Approve(ctx context.Context, actor models.Actor, paymentID string) (*models.PaymentRecord, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}

	var approved models.PaymentRecord
	var changed bool
	_, err := s.store.Payments().Update(ctx, func(payments []models.PaymentRecord) ([]models.PaymentRecord, error) {
		for i := range payments {
			if payments[i].ID != paymentID {
				continue
			}
			switch payments[i].Status {
			case models.PaymentSuccess:
				approved = payments[i]
				return payments, nil
			case models.PaymentFailed:
				return nil, appErrors.Clone(appErrors.ErrConflict, "failed payments cannot be approved")
			}
			payments[i].Status = models.PaymentSuccess
			approved = payments[i]
			changed = true
			return payments, nil
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
	})
	if err != nil {
		return nil, passThrough(err, "failed to approve payment")
	}

	if changed {
		s.logger.Info("payment approved", zap.String("payment_id", paymentID), zap.String("student_id", approved.StudentID))
	}
	return &approved, nil
}

// Delinquents returns roster students with no successful payment in month and nothing pending.
func (s *PaymentService) Delinquents(ctx context.Context, actor models.Actor, month string) ([]models.User, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	month, err := s.normaliseMonth(month)
	if err != nil {
		return nil, err
	}
	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	payments, err := s.store.Payments().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load payments")
	}
	return DelinquentStudents(students, payments, month), nil
}

// Summary aggregates the ledger visible to the caller. Teachers may narrow to one student.
func (s *PaymentService) Summary(ctx context.Context, actor models.Actor, studentID string) (*models.PaymentSummary, error) {
	studentID, err := scopeToActor(actor, studentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load payments")
	}

	month := s.CurrentMonth()
	visible := filterPayments(payments, studentID)
	summary := &models.PaymentSummary{Month: month, Target: s.Target(actor)}
	summary.PaidTotal = PaidTotal(visible)
	summary.ProgressPercent = ProgressPercent(summary.PaidTotal, summary.Target)
	for _, p := range visible {
		switch p.Status {
		case models.PaymentSuccess:
			summary.SuccessCount++
		case models.PaymentPending:
			summary.PendingCount++
			summary.PendingAmount += p.Amount
		}
	}
	for _, p := range payments {
		if p.Status != models.PaymentSuccess {
			continue
		}
		summary.LifetimeRevenue += p.Amount
		if strings.HasPrefix(p.Date, month) {
			summary.MonthRevenue += p.Amount
		}
	}
	if !actor.IsTeacher() {
		summary.Delinquent = IsDelinquent(payments, actor.ID, month)
		summary.HasPendingApproval = HasPending(payments, actor.ID)
	}
	return summary, nil
}

// Target is the fee target for the caller's view.
func (s *PaymentService) Target(actor models.Actor) float64 {
	if actor.IsTeacher() {
		return s.config.TeacherTarget
	}
	return s.config.StudentTarget
}

// Dataset builds the export table for the payments visible to the caller.
func (s *PaymentService) Dataset(ctx context.Context, actor models.Actor, studentID string) (export.Dataset, error) {
	payments, err := s.List(ctx, actor, models.PaymentFilter{StudentID: studentID})
	if err != nil {
		return export.Dataset{}, err
	}
	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return export.Dataset{}, storageFailure(err, "failed to load roster")
	}
	return PaymentDataset(payments, students), nil
}

func (s *PaymentService) normaliseMonth(month string) (string, error) {
	if month == "" {
		return s.CurrentMonth(), nil
	}
	if _, err := time.Parse(monthLayout, month); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM")
	}
	return month, nil
}

// PaidTotal sums the amounts of successful payments.
func PaidTotal(payments []models.PaymentRecord) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == models.PaymentSuccess {
			total += p.Amount
		}
	}
	return total
}

// ProgressPercent is paid/target as a percentage, capped at 100.
func ProgressPercent(paid, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, paid/target*100)
}

// HasPaidInMonth reports a SUCCESS payment for the student dated within month (YYYY-MM).
func HasPaidInMonth(payments []models.PaymentRecord, studentID, month string) bool {
	for _, p := range payments {
		if p.StudentID == studentID && p.Status == models.PaymentSuccess && strings.HasPrefix(p.Date, month) {
			return true
		}
	}
	return false
}

// HasPending reports any payment of the student still under review.
func HasPending(payments []models.PaymentRecord, studentID string) bool {
	for _, p := range payments {
		if p.StudentID == studentID && p.Status == models.PaymentPending {
			return true
		}
	}
	return false
}

// IsDelinquent is true when the student has not paid for month and has nothing under review.
func IsDelinquent(payments []models.PaymentRecord, studentID, month string) bool {
	return !HasPaidInMonth(payments, studentID, month) && !HasPending(payments, studentID)
}

// DelinquentStudents filters the roster down to delinquent students.
func DelinquentStudents(students []models.User, payments []models.PaymentRecord, month string) []models.User {
	result := make([]models.User, 0)
	for _, s := range students {
		if IsDelinquent(payments, s.ID, month) {
			result = append(result, s)
		}
	}
	return result
}

// PaymentDataset lays out payments in export column order.
func PaymentDataset(payments []models.PaymentRecord, students []models.User) export.Dataset {
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}
	rows := make([]map[string]string, 0, len(payments))
	for _, p := range payments {
		name, ok := names[p.StudentID]
		if !ok {
			name = "Unknown"
		}
		rows = append(rows, map[string]string{
			"Student":        name,
			"Date":           p.Date,
			"Description":    p.Description,
			"Amount":         strconv.FormatFloat(p.Amount, 'f', -1, 64),
			"Status":         string(p.Status),
			"Transaction ID": valueOr(p.TransactionID, "N/A"),
			"Method":         valueOr(p.PaymentMethod, "Manual"),
		})
	}
	return export.Dataset{Headers: PaymentHeaders, Rows: rows}
}

func filterPayments(payments []models.PaymentRecord, studentID string) []models.PaymentRecord {
	if studentID == "" {
		return payments
	}
	result := make([]models.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.StudentID == studentID {
			result = append(result, p)
		}
	}
	return result
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
