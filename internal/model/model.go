// Package model содержит доменные сущности биллинга коммунального сервиса.
package model

import (
	"fmt"
	"time"
)

// Role описывает роль пользователя в системе.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
)

// ParseRole проверяет и приводит строку к известной роли.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleDriver, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// User представляет учётную запись пользователя портала.
type User struct {
	ID           int64
	Login        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
}

// Customer представляет клиентский профиль, привязанный к учётной записи.
type Customer struct {
	ID         int64
	UserID     int64
	FirstName  string
	LastName   string
	Identifier string
}

// InvoiceStatus описывает статус счёта.
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "Pending"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusOverdue       InvoiceStatus = "Overdue"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
)

// ParseInvoiceStatus проверяет и приводит строку к одному из пяти статусов счёта.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue,
		InvoiceStatusCancelled, InvoiceStatusPartiallyPaid:
		return InvoiceStatus(s), nil
	}
	return "", fmt.Errorf("unknown invoice status: %q", s)
}

// PaymentMethod описывает способ оплаты.
type PaymentMethod string

const (
	MethodCard          PaymentMethod = "Card"
	MethodBankTransfer  PaymentMethod = "Bank Transfer"
	MethodCash          PaymentMethod = "Cash"
	MethodOnlineGateway PaymentMethod = "Online Gateway"
	MethodOther         PaymentMethod = "Other"
)

// ParsePaymentMethod проверяет и приводит строку к известному способу оплаты.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCard, MethodBankTransfer, MethodCash, MethodOnlineGateway, MethodOther:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method: %q", s)
}

// Invoice описывает выставленный клиенту счёт. Сумма хранится в центах и
// фиксируется при создании.
type Invoice struct {
	ID          int64
	CustomerID  int64
	AmountCents int64
	BillingDate time.Time
	DueDate     time.Time
	Description string
	Status      InvoiceStatus
	CreatedAt   time.Time
}

// InvoiceWithCustomer дополняет счёт данными клиента для списков и отчётов.
type InvoiceWithCustomer struct {
	Invoice
	CustomerFirstName  string
	CustomerLastName   string
	CustomerIdentifier string
}

// Payment описывает один платёж по счёту. Записи платежей не изменяются
// и не удаляются после вставки.
type Payment struct {
	ID            int64
	InvoiceID     int64
	PaymentDate   time.Time
	AmountCents   int64
	Method        PaymentMethod
	TransactionID *string
	CreatedAt     time.Time
}

// CustomerPayment дополняет платёж данными счёта для клиентской истории платежей.
type CustomerPayment struct {
	Payment
	InvoiceDescription string
	BillingDate        time.Time
}

// Notification описывает уведомление пользователя.
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	LinkURL   *string
	IsRead    bool
	CreatedAt time.Time
}
