package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/greenloop/wasteops/internal/model"
	"github.com/greenloop/wasteops/internal/repository"
)

type stubRepo struct {
	registerUserID     int64
	registerCustomerID int64
	registerErr        error

	user        *model.User
	userErr     error
	customer    *model.Customer
	customerErr error

	invoice       *model.Invoice
	getInvoiceErr error

	createInvoiceID    int64
	createInvoiceErr   error
	createInvoiceCalls int

	recordPaymentID int64
	recordStatus    model.InvoiceStatus
	recordChanged   bool
	recordErr       error
	recordCalls     int

	updateStatusCalls  int
	lastUpdatedStatus  model.InvoiceStatus
	updateStatusErr    error
	accountUserID      int64
	accountErr         error
	notifyErr          error
	notifiedMessages   []string
	notificationsLimit int
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) RegisterCustomer(ctx context.Context, login string, passwordHash []byte, firstName, lastName string) (int64, int64, error) {
	return s.registerUserID, s.registerCustomerID, s.registerErr
}

func (s *stubRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubRepo) GetCustomerByUserID(ctx context.Context, userID int64) (*model.Customer, error) {
	return s.customer, s.customerErr
}

func (s *stubRepo) GetCustomerAccount(ctx context.Context, customerID int64) (int64, error) {
	return s.accountUserID, s.accountErr
}

func (s *stubRepo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return nil, nil
}

func (s *stubRepo) CreateInvoice(ctx context.Context, customerID, amountCents int64, billingDate, dueDate time.Time, description string) (int64, error) {
	s.createInvoiceCalls++
	return s.createInvoiceID, s.createInvoiceErr
}

func (s *stubRepo) GetInvoice(ctx context.Context, invoiceID int64) (*model.Invoice, error) {
	return s.invoice, s.getInvoiceErr
}

func (s *stubRepo) ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]model.InvoiceWithCustomer, error) {
	return nil, nil
}

func (s *stubRepo) ListOverdueInvoices(ctx context.Context, today time.Time) ([]model.InvoiceWithCustomer, error) {
	return nil, nil
}

func (s *stubRepo) GetInvoicesByCustomer(ctx context.Context, customerID int64) ([]model.Invoice, error) {
	return nil, nil
}

func (s *stubRepo) UpdateInvoiceStatus(ctx context.Context, invoiceID int64, status model.InvoiceStatus) error {
	s.updateStatusCalls++
	s.lastUpdatedStatus = status
	return s.updateStatusErr
}

func (s *stubRepo) RecordPayment(ctx context.Context, invoiceID int64, paymentDate time.Time, amountCents int64, method model.PaymentMethod, transactionID *string) (int64, model.InvoiceStatus, bool, error) {
	s.recordCalls++
	return s.recordPaymentID, s.recordStatus, s.recordChanged, s.recordErr
}

func (s *stubRepo) GetPaymentsByInvoice(ctx context.Context, invoiceID int64) ([]model.Payment, error) {
	return nil, nil
}

func (s *stubRepo) GetPaymentsByCustomer(ctx context.Context, customerID int64) ([]model.CustomerPayment, error) {
	return nil, nil
}

func (s *stubRepo) CreateNotification(ctx context.Context, userID int64, message string, linkURL *string) error {
	if s.notifyErr != nil {
		return s.notifyErr
	}
	s.notifiedMessages = append(s.notifiedMessages, message)
	return nil
}

func (s *stubRepo) GetNotificationsByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	s.notificationsLimit = limit
	return nil, nil
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, notificationID, userID int64) error {
	return nil
}

func TestHashPasswordDeterministic(t *testing.T) {
	a := hashPassword("user", "pass")
	b := hashPassword("user", "pass")
	c := hashPassword("user", "other")

	if string(a) != string(b) {
		t.Fatalf("hashPassword must be deterministic, got %x and %x", a, b)
	}
	if string(a) == string(c) {
		t.Fatalf("different passwords must produce different hashes")
	}
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	hashed := hashPassword("user", "correct")
	repo := &stubRepo{
		user: &model.User{
			ID:           1,
			Login:        "user",
			PasswordHash: hashed,
			Role:         model.RoleCustomer,
		},
	}
	svc := NewService(repo, nil)

	_, _, err := svc.Authenticate(context.Background(), "user", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UserWithoutCustomerProfile(t *testing.T) {
	hashed := hashPassword("admin", "pass")
	repo := &stubRepo{
		user: &model.User{
			ID:           1,
			Login:        "admin",
			PasswordHash: hashed,
			Role:         model.RoleAdmin,
		},
		customerErr: repository.ErrCustomerNotFound,
	}
	svc := NewService(repo, nil)

	user, customer, err := svc.Authenticate(context.Background(), "admin", "pass")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user == nil || user.Role != model.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
	if customer != nil {
		t.Fatalf("expected nil customer, got %+v", customer)
	}
}

func TestCreateInvoice_CollectsAllValidationErrors(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Errors) != 4 {
		t.Fatalf("errors = %v, want 4 entries", vErr.Errors)
	}
	if repo.createInvoiceCalls != 0 {
		t.Fatalf("no write must happen on validation failure")
	}
}

func TestCreateInvoice_NotifiesCustomer(t *testing.T) {
	repo := &stubRepo{
		createInvoiceID: 7,
		accountUserID:   42,
	}
	svc := NewService(repo, nil)

	id, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		CustomerID:  1,
		AmountCents: 10000,
		DueDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Description: "September collection",
	})
	if err != nil {
		t.Fatalf("CreateInvoice error: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if len(repo.notifiedMessages) != 1 {
		t.Fatalf("expected one notification, got %v", repo.notifiedMessages)
	}
	if !strings.Contains(repo.notifiedMessages[0], "#7") || !strings.Contains(repo.notifiedMessages[0], "100.00") {
		t.Fatalf("unexpected notification: %q", repo.notifiedMessages[0])
	}
}

func TestCreateInvoice_NotificationFailureTolerated(t *testing.T) {
	repo := &stubRepo{
		createInvoiceID: 3,
		accountUserID:   42,
		notifyErr:       errors.New("notifications table unavailable"),
	}
	svc := NewService(repo, nil)

	id, err := svc.CreateInvoice(context.Background(), CreateInvoiceInput{
		CustomerID:  1,
		AmountCents: 5000,
		DueDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Description: "pickup fee",
	})
	if err != nil {
		t.Fatalf("notification failure must not fail the operation: %v", err)
	}
	if id != 3 {
		t.Fatalf("id = %d, want 3", id)
	}
}

func TestRecordPayment_RejectsInvalidInput(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID:   1,
		AmountCents: -10,
		Method:      model.PaymentMethod("Crypto"),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Errors) != 2 {
		t.Fatalf("errors = %v, want 2 entries", vErr.Errors)
	}
	if repo.recordCalls != 0 {
		t.Fatalf("no write must happen on validation failure")
	}
}

func TestRecordPayment_InvoiceNotFound(t *testing.T) {
	repo := &stubRepo{
		getInvoiceErr: repository.ErrInvoiceNotFound,
	}
	svc := NewService(repo, nil)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID:   99,
		AmountCents: 1000,
		Method:      model.MethodCash,
	})
	if !errors.Is(err, repository.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
	if repo.recordCalls != 0 {
		t.Fatalf("missing invoice must be detected before any write")
	}
}

func TestRecordPayment_Success(t *testing.T) {
	repo := &stubRepo{
		invoice: &model.Invoice{
			ID:          5,
			CustomerID:  2,
			AmountCents: 10000,
			Status:      model.InvoiceStatusPending,
		},
		recordPaymentID: 11,
		recordStatus:    model.InvoiceStatusPartiallyPaid,
		recordChanged:   true,
		accountUserID:   42,
	}
	svc := NewService(repo, nil)

	result, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID:   5,
		AmountCents: 6000,
		Method:      model.MethodCard,
	})
	if err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if result.PaymentID != 11 {
		t.Fatalf("PaymentID = %d, want 11", result.PaymentID)
	}
	if result.Status != model.InvoiceStatusPartiallyPaid || !result.StatusChanged {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(repo.notifiedMessages) != 1 || !strings.Contains(repo.notifiedMessages[0], "60.00") {
		t.Fatalf("unexpected notifications: %v", repo.notifiedMessages)
	}
}

func TestRecordPayment_NotificationFailureTolerated(t *testing.T) {
	repo := &stubRepo{
		invoice: &model.Invoice{
			ID:          5,
			CustomerID:  2,
			AmountCents: 10000,
			Status:      model.InvoiceStatusPending,
		},
		recordPaymentID: 12,
		recordStatus:    model.InvoiceStatusPaid,
		recordChanged:   true,
		accountErr:      repository.ErrCustomerNotFound,
	}
	svc := NewService(repo, nil)

	result, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		InvoiceID:   5,
		AmountCents: 10000,
		Method:      model.MethodBankTransfer,
	})
	if err != nil {
		t.Fatalf("notification failure must not fail the operation: %v", err)
	}
	if result.Status != model.InvoiceStatusPaid {
		t.Fatalf("status = %q, want Paid", result.Status)
	}
}

func TestUpdateInvoiceStatus_InvalidStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	err := svc.UpdateInvoiceStatus(context.Background(), 1, model.InvoiceStatus("Refunded"))

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if repo.updateStatusCalls != 0 {
		t.Fatalf("no write must happen for an unrecognized status")
	}
}

func TestUpdateInvoiceStatus_NoTransitionGraph(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	if err := svc.UpdateInvoiceStatus(context.Background(), 1, model.InvoiceStatusCancelled); err != nil {
		t.Fatalf("UpdateInvoiceStatus error: %v", err)
	}
	if repo.updateStatusCalls != 1 || repo.lastUpdatedStatus != model.InvoiceStatusCancelled {
		t.Fatalf("status overwrite must be unconditional, calls=%d status=%q",
			repo.updateStatusCalls, repo.lastUpdatedStatus)
	}
}

func TestGetCustomerInvoice_OwnershipEnforced(t *testing.T) {
	repo := &stubRepo{
		invoice: &model.Invoice{
			ID:         5,
			CustomerID: 2,
		},
	}
	svc := NewService(repo, nil)

	_, _, err := svc.GetCustomerInvoice(context.Background(), 1, 5)
	if !errors.Is(err, repository.ErrInvoiceNotFound) {
		t.Fatalf("foreign invoice must be indistinguishable from a missing one, got %v", err)
	}
}

func TestGetNotifications_DefaultLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	if _, err := svc.GetNotifications(context.Background(), 1, 0); err != nil {
		t.Fatalf("GetNotifications error: %v", err)
	}
	if repo.notificationsLimit != 5 {
		t.Fatalf("limit = %d, want default 5", repo.notificationsLimit)
	}
}
