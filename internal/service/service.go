// Package service реализует бизнес-логику биллингового сервиса.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenloop/wasteops/internal/model"
	"github.com/greenloop/wasteops/internal/money"
	"github.com/greenloop/wasteops/internal/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError агрегирует все ошибки входных данных одного действия.
// Действие с ошибками валидации отклоняется целиком до открытия транзакции.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	RegisterCustomer(ctx context.Context, login string, passwordHash []byte, firstName, lastName string) (int64, int64, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetCustomerByUserID(ctx context.Context, userID int64) (*model.Customer, error)
	GetCustomerAccount(ctx context.Context, customerID int64) (int64, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)

	CreateInvoice(ctx context.Context, customerID, amountCents int64, billingDate, dueDate time.Time, description string) (int64, error)
	GetInvoice(ctx context.Context, invoiceID int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]model.InvoiceWithCustomer, error)
	ListOverdueInvoices(ctx context.Context, today time.Time) ([]model.InvoiceWithCustomer, error)
	GetInvoicesByCustomer(ctx context.Context, customerID int64) ([]model.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, invoiceID int64, status model.InvoiceStatus) error

	RecordPayment(ctx context.Context, invoiceID int64, paymentDate time.Time, amountCents int64, method model.PaymentMethod, transactionID *string) (int64, model.InvoiceStatus, bool, error)
	GetPaymentsByInvoice(ctx context.Context, invoiceID int64) ([]model.Payment, error)
	GetPaymentsByCustomer(ctx context.Context, customerID int64) ([]model.CustomerPayment, error)

	CreateNotification(ctx context.Context, userID int64, message string, linkURL *string) error
	GetNotificationsByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID int64) error
}

// Service координирует действия над счетами и платежами: валидация,
// запись в хранилище и пост-коммитные уведомления.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterCustomer регистрирует нового клиента с учётной записью.
func (s *Service) RegisterCustomer(ctx context.Context, login, password, firstName, lastName string) (int64, int64, error) {
	hashed := hashPassword(login, password)
	return s.repo.RegisterCustomer(ctx, login, hashed, firstName, lastName)
}

// Authenticate проверяет логин и пароль и возвращает пользователя вместе
// с его клиентским профилем, если такой есть.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*model.User, *model.Customer, error) {
	u, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, nil, err
	}

	hashed := hashPassword(login, password)
	if hex.EncodeToString(hashed) != hex.EncodeToString(u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	customer, err := s.repo.GetCustomerByUserID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return u, nil, nil
		}
		return nil, nil, err
	}

	return u, customer, nil
}

func hashPassword(login, password string) []byte {
	sum := sha256.Sum256([]byte(login + ":" + password))
	return sum[:]
}

// CreateInvoiceInput содержит входные данные для выставления счёта.
type CreateInvoiceInput struct {
	CustomerID  int64
	AmountCents int64
	BillingDate time.Time
	DueDate     time.Time
	Description string
}

// CreateInvoice выставляет клиенту счёт со статусом Pending и после успешной
// записи уведомляет владельца клиентского профиля.
func (s *Service) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (int64, error) {
	var errs []string
	if in.CustomerID <= 0 {
		errs = append(errs, "customer is required")
	}
	if in.AmountCents <= 0 {
		errs = append(errs, "amount must be a positive number")
	}
	if in.DueDate.IsZero() {
		errs = append(errs, "due date is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, "description is required")
	}
	if len(errs) > 0 {
		return 0, &ValidationError{Errors: errs}
	}

	if in.BillingDate.IsZero() {
		in.BillingDate = truncateToDate(time.Now())
	}

	invoiceID, err := s.repo.CreateInvoice(ctx, in.CustomerID, in.AmountCents, in.BillingDate, in.DueDate, in.Description)
	if err != nil {
		return 0, err
	}

	s.notifyCustomer(ctx, in.CustomerID,
		fmt.Sprintf("A new invoice #%d for an amount of %s has been generated.",
			invoiceID, money.FromCents(in.AmountCents).StringFixed(2)),
		invoiceLink(invoiceID))

	return invoiceID, nil
}

// ListInvoices возвращает счета по фильтру.
func (s *Service) ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]model.InvoiceWithCustomer, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// GetInvoiceWithPayments возвращает счёт вместе с его платежами.
func (s *Service) GetInvoiceWithPayments(ctx context.Context, invoiceID int64) (*model.Invoice, []model.Payment, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.repo.GetPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	return inv, payments, nil
}

// UpdateInvoiceStatus безусловно перезаписывает статус счёта. Переходы между
// статусами не ограничены: администратор может вернуть отменённый счёт в Pending.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, invoiceID int64, status model.InvoiceStatus) error {
	if _, err := model.ParseInvoiceStatus(string(status)); err != nil {
		return &ValidationError{Errors: []string{"invalid status selected"}}
	}
	return s.repo.UpdateInvoiceStatus(ctx, invoiceID, status)
}

// RecordPaymentInput содержит входные данные для регистрации платежа.
type RecordPaymentInput struct {
	InvoiceID     int64
	PaymentDate   time.Time
	AmountCents   int64
	Method        model.PaymentMethod
	TransactionID *string
}

// RecordPaymentResult описывает итог регистрации платежа.
type RecordPaymentResult struct {
	PaymentID     int64
	Status        model.InvoiceStatus
	StatusChanged bool
}

// RecordPayment регистрирует платёж по счёту. Платёж и пересчёт статуса
// выполняются в одной транзакции хранилища; после фиксации владелец счёта
// уведомляется. Сбой уведомления не влияет на результат операции.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	var errs []string
	if in.AmountCents <= 0 {
		errs = append(errs, "amount paid must be a positive number")
	}
	if _, err := model.ParsePaymentMethod(string(in.Method)); err != nil {
		errs = append(errs, "invalid payment method selected")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	inv, err := s.repo.GetInvoice(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}

	if in.PaymentDate.IsZero() {
		in.PaymentDate = truncateToDate(time.Now())
	}

	paymentID, status, changed, err := s.repo.RecordPayment(ctx, in.InvoiceID, in.PaymentDate, in.AmountCents, in.Method, in.TransactionID)
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, inv.CustomerID,
		fmt.Sprintf("A payment of %s was recorded for invoice #%d.",
			money.FromCents(in.AmountCents).StringFixed(2), inv.ID),
		invoiceLink(inv.ID))

	return &RecordPaymentResult{
		PaymentID:     paymentID,
		Status:        status,
		StatusChanged: changed,
	}, nil
}

// ListCustomers возвращает справочник клиентов.
func (s *Service) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// ListOverdueInvoices возвращает отчёт по просроченным счетам на текущую дату.
func (s *Service) ListOverdueInvoices(ctx context.Context) ([]model.InvoiceWithCustomer, error) {
	return s.repo.ListOverdueInvoices(ctx, truncateToDate(time.Now()))
}

// GetCustomerInvoices возвращает счета указанного клиента.
func (s *Service) GetCustomerInvoices(ctx context.Context, customerID int64) ([]model.Invoice, error) {
	return s.repo.GetInvoicesByCustomer(ctx, customerID)
}

// GetCustomerInvoice возвращает счёт клиента с платежами. Чужой счёт
// неотличим от несуществующего.
func (s *Service) GetCustomerInvoice(ctx context.Context, customerID, invoiceID int64) (*model.Invoice, []model.Payment, error) {
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv.CustomerID != customerID {
		return nil, nil, repository.ErrInvoiceNotFound
	}

	payments, err := s.repo.GetPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	return inv, payments, nil
}

// GetCustomerPayments возвращает историю платежей клиента по всем счетам.
func (s *Service) GetCustomerPayments(ctx context.Context, customerID int64) ([]model.CustomerPayment, error) {
	return s.repo.GetPaymentsByCustomer(ctx, customerID)
}

// GetNotifications возвращает последние уведомления пользователя.
func (s *Service) GetNotifications(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.GetNotificationsByUser(ctx, userID, limit)
}

// MarkNotificationRead отмечает уведомление пользователя прочитанным.
func (s *Service) MarkNotificationRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkNotificationRead(ctx, notificationID, userID)
}

// notifyCustomer отправляет уведомление владельцу клиентского профиля.
// Вызывается строго после фиксации транзакции; сбой логируется и не
// возвращается вызывающему.
func (s *Service) notifyCustomer(ctx context.Context, customerID int64, message, link string) {
	userID, err := s.repo.GetCustomerAccount(ctx, customerID)
	if err != nil {
		s.logger.Warn("resolve customer account for notification",
			zap.Int64("customerID", customerID), zap.Error(err))
		return
	}

	if err := s.repo.CreateNotification(ctx, userID, message, &link); err != nil {
		s.logger.Warn("create notification",
			zap.Int64("userID", userID), zap.Error(err))
	}
}

func invoiceLink(invoiceID int64) string {
	return fmt.Sprintf("/api/customer/invoices/%d", invoiceID)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
