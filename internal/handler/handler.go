// Package handler содержит HTTP-обработчики API биллингового сервиса.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/greenloop/wasteops/internal/middleware"
	"github.com/greenloop/wasteops/internal/model"
	"github.com/greenloop/wasteops/internal/money"
	"github.com/greenloop/wasteops/internal/repository"
	"github.com/greenloop/wasteops/internal/service"
)

const dateLayout = "2006-01-02"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterCustomer(ctx context.Context, login, password, firstName, lastName string) (int64, int64, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, *model.Customer, error)

	CreateInvoice(ctx context.Context, in service.CreateInvoiceInput) (int64, error)
	ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]model.InvoiceWithCustomer, error)
	GetInvoiceWithPayments(ctx context.Context, invoiceID int64) (*model.Invoice, []model.Payment, error)
	UpdateInvoiceStatus(ctx context.Context, invoiceID int64, status model.InvoiceStatus) error
	RecordPayment(ctx context.Context, in service.RecordPaymentInput) (*service.RecordPaymentResult, error)

	ListCustomers(ctx context.Context) ([]model.Customer, error)
	ListOverdueInvoices(ctx context.Context) ([]model.InvoiceWithCustomer, error)

	GetCustomerInvoices(ctx context.Context, customerID int64) ([]model.Invoice, error)
	GetCustomerInvoice(ctx context.Context, customerID, invoiceID int64) (*model.Invoice, []model.Payment, error)
	GetCustomerPayments(ctx context.Context, customerID int64) ([]model.CustomerPayment, error)

	GetNotifications(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID int64) error
}

// Handler реализует HTTP-обработчики API биллингового сервиса.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	validate       *validator.Validate
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		validate:       validate,
	}
}

type errorListResponse struct {
	Errors []string `json:"errors"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) writeErrors(w http.ResponseWriter, errs []string) {
	h.writeJSON(w, http.StatusBadRequest, errorListResponse{Errors: errs})
}

// collectFieldErrors превращает ошибки валидации структуры в список сообщений.
func (h *Handler) collectFieldErrors(v any) []string {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []string{"invalid request"}
	}

	var errs []string
	for _, fe := range vErrs {
		if fe.Tag() == "required" {
			errs = append(errs, fmt.Sprintf("%s is required", fe.Field()))
		} else {
			errs = append(errs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errs
}

// handleServiceError отображает ошибки сервиса на HTTP-статусы.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, logMsg string, fields ...zap.Field) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.writeErrors(w, vErr.Errors)
	case errors.Is(err, repository.ErrInvoiceNotFound),
		errors.Is(err, repository.ErrNotificationNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, repository.ErrCustomerNotFound):
		h.writeErrors(w, []string{"customer not found"})
	default:
		h.logger.Error(logMsg, append(fields, zap.Error(err))...)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type registerRequest struct {
	Login     string `json:"login" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register обрабатывает регистрацию нового клиента.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if errs := h.collectFieldErrors(req); len(errs) > 0 {
		h.writeErrors(w, errs)
		return
	}

	userID, customerID, err := h.service.RegisterCustomer(r.Context(), req.Login, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("register customer error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.authMiddleware.SetAuthCookie(w, middleware.Claims{
		UserID:     userID,
		Role:       model.RoleCustomer,
		CustomerID: customerID,
	})
	w.WriteHeader(http.StatusOK)
}

type credentialsRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login выполняет аутентификацию пользователя и установку cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if errs := h.collectFieldErrors(req); len(errs) > 0 {
		h.writeErrors(w, errs)
		return
	}

	user, customer, err := h.service.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims := middleware.Claims{UserID: user.ID, Role: user.Role}
	if customer != nil {
		claims.CustomerID = customer.ID
	}

	h.authMiddleware.SetAuthCookie(w, claims)
	w.WriteHeader(http.StatusOK)
}

type createInvoiceRequest struct {
	CustomerID  int64           `json:"customer_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"-"`
	BillingDate string          `json:"billing_date"`
	DueDate     string          `json:"due_date" validate:"required"`
	Description string          `json:"description" validate:"required"`
}

type createInvoiceResponse struct {
	ID int64 `json:"id"`
}

// CreateInvoice выставляет новый счёт клиенту.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	errs := h.collectFieldErrors(req)

	amountCents, amountErrs := parseAmount(req.Amount, "amount")
	errs = append(errs, amountErrs...)

	var billingDate, dueDate time.Time
	if req.BillingDate != "" {
		var err error
		billingDate, err = time.Parse(dateLayout, req.BillingDate)
		if err != nil {
			errs = append(errs, "billing_date must be a valid date (YYYY-MM-DD)")
		}
	}
	if req.DueDate != "" {
		var err error
		dueDate, err = time.Parse(dateLayout, req.DueDate)
		if err != nil {
			errs = append(errs, "due_date must be a valid date (YYYY-MM-DD)")
		}
	}

	if len(errs) > 0 {
		h.writeErrors(w, errs)
		return
	}

	invoiceID, err := h.service.CreateInvoice(r.Context(), service.CreateInvoiceInput{
		CustomerID:  req.CustomerID,
		AmountCents: amountCents,
		BillingDate: billingDate,
		DueDate:     dueDate,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err, "create invoice error")
		return
	}

	h.writeJSON(w, http.StatusCreated, createInvoiceResponse{ID: invoiceID})
}

// ListInvoices возвращает счета по необязательным фильтрам из query-параметров.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseInvoiceFilter(r)
	if len(errs) > 0 {
		h.writeErrors(w, errs)
		return
	}

	invoices, err := h.service.ListInvoices(r.Context(), filter)
	if err != nil {
		h.logger.Error("list invoices error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]invoiceListItem, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceListItem(inv))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type viewInvoiceResponse struct {
	Invoice  invoiceResponse   `json:"invoice"`
	Payments []paymentResponse `json:"payments"`
}

// GetInvoice возвращает счёт вместе с его платежами.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	inv, payments, err := h.service.GetInvoiceWithPayments(r.Context(), invoiceID)
	if err != nil {
		h.handleServiceError(w, err, "view invoice error", zap.Int64("invoiceID", invoiceID))
		return
	}

	h.writeJSON(w, http.StatusOK, viewInvoiceResponse{
		Invoice:  toInvoiceResponse(*inv),
		Payments: toPaymentResponses(payments),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInvoiceStatus безусловно перезаписывает статус счёта.
func (h *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	invoiceID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	errs := h.collectFieldErrors(req)

	status, parseErr := model.ParseInvoiceStatus(req.Status)
	if req.Status != "" && parseErr != nil {
		errs = append(errs, "invalid status selected")
	}

	if len(errs) > 0 {
		h.writeErrors(w, errs)
		return
	}

	if err := h.service.UpdateInvoiceStatus(r.Context(), invoiceID, status); err != nil {
		h.handleServiceError(w, err, "update invoice status error", zap.Int64("invoiceID", invoiceID))
		return
	}

	w.WriteHeader(http.StatusOK)
}

type recordPaymentRequest struct {
	PaymentDate   string          `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount_paid" validate:"-"`
	Method        string          `json:"payment_method" validate:"required"`
	TransactionID *string         `json:"transaction_id"`
}

type recordPaymentResponse struct {
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
}

// RecordPayment регистрирует платёж по счёту.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	invoiceID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	errs := h.collectFieldErrors(req)

	amountCents, amountErrs := parseAmount(req.Amount, "amount_paid")
	errs = append(errs, amountErrs...)

	var method model.PaymentMethod
	if req.Method != "" {
		var err error
		method, err = model.ParsePaymentMethod(req.Method)
		if err != nil {
			errs = append(errs, "invalid payment method selected")
		}
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		var err error
		paymentDate, err = time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			errs = append(errs, "payment_date must be a valid date (YYYY-MM-DD)")
		}
	}

	var transactionID *string
	if req.TransactionID != nil && strings.TrimSpace(*req.TransactionID) != "" {
		transactionID = req.TransactionID
	}

	if len(errs) > 0 {
		h.writeErrors(w, errs)
		return
	}

	result, err := h.service.RecordPayment(r.Context(), service.RecordPaymentInput{
		InvoiceID:     invoiceID,
		PaymentDate:   paymentDate,
		AmountCents:   amountCents,
		Method:        method,
		TransactionID: transactionID,
	})
	if err != nil {
		h.handleServiceError(w, err, "record payment error", zap.Int64("invoiceID", invoiceID))
		return
	}

	h.writeJSON(w, http.StatusCreated, recordPaymentResponse{
		PaymentID: result.PaymentID,
		Status:    string(result.Status),
	})
}

type customerResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// ListCustomers возвращает справочник клиентов.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error("list customers error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, customerResponse{
			ID:         c.ID,
			Name:       strings.TrimSpace(c.FirstName + " " + c.LastName),
			Identifier: c.Identifier,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// OverdueReport возвращает отчёт по просроченным счетам. Отчёт только
// читает данные: статус Overdue в счета не записывается.
func (h *Handler) OverdueReport(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.ListOverdueInvoices(r.Context())
	if err != nil {
		h.logger.Error("overdue report error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]invoiceListItem, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceListItem(inv))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// CustomerInvoices возвращает счета текущего клиента.
func (h *Handler) CustomerInvoices(w http.ResponseWriter, r *http.Request) {
	claims, ok := customerClaims(w, r)
	if !ok {
		return
	}

	invoices, err := h.service.GetCustomerInvoices(r.Context(), claims.CustomerID)
	if err != nil {
		h.logger.Error("customer invoices error", zap.Error(err), zap.Int64("customerID", claims.CustomerID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceResponse(inv))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// CustomerInvoice возвращает счёт текущего клиента с платежами.
// Чужой счёт неотличим от несуществующего.
func (h *Handler) CustomerInvoice(w http.ResponseWriter, r *http.Request) {
	claims, ok := customerClaims(w, r)
	if !ok {
		return
	}

	invoiceID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	inv, payments, err := h.service.GetCustomerInvoice(r.Context(), claims.CustomerID, invoiceID)
	if err != nil {
		h.handleServiceError(w, err, "customer invoice error", zap.Int64("invoiceID", invoiceID))
		return
	}

	h.writeJSON(w, http.StatusOK, viewInvoiceResponse{
		Invoice:  toInvoiceResponse(*inv),
		Payments: toPaymentResponses(payments),
	})
}

type customerPaymentResponse struct {
	paymentResponse
	InvoiceDescription string `json:"invoice_description"`
	BillingDate        string `json:"billing_date"`
}

// CustomerPayments возвращает историю платежей текущего клиента.
func (h *Handler) CustomerPayments(w http.ResponseWriter, r *http.Request) {
	claims, ok := customerClaims(w, r)
	if !ok {
		return
	}

	payments, err := h.service.GetCustomerPayments(r.Context(), claims.CustomerID)
	if err != nil {
		h.logger.Error("customer payments error", zap.Error(err), zap.Int64("customerID", claims.CustomerID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]customerPaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, customerPaymentResponse{
			paymentResponse:    toPaymentResponse(p.Payment),
			InvoiceDescription: p.InvoiceDescription,
			BillingDate:        p.BillingDate.Format(dateLayout),
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type notificationResponse struct {
	ID        int64   `json:"id"`
	Message   string  `json:"message"`
	LinkURL   *string `json:"link_url,omitempty"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}

// GetNotifications возвращает последние уведомления текущего пользователя.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeErrors(w, []string{"limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	notifications, err := h.service.GetNotifications(r.Context(), claims.UserID, limit)
	if err != nil {
		h.logger.Error("get notifications error", zap.Error(err), zap.Int64("userID", claims.UserID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			LinkURL:   n.LinkURL,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// MarkNotificationRead отмечает уведомление текущего пользователя прочитанным.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	notificationID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), notificationID, claims.UserID); err != nil {
		h.handleServiceError(w, err, "mark notification read error", zap.Int64("notificationID", notificationID))
		return
	}

	w.WriteHeader(http.StatusOK)
}

type invoiceResponse struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customer_id"`
	Amount      float64 `json:"amount"`
	BillingDate string  `json:"billing_date"`
	DueDate     string  `json:"due_date"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

type invoiceListItem struct {
	invoiceResponse
	CustomerName       string `json:"customer_name"`
	CustomerIdentifier string `json:"customer_identifier"`
}

type paymentResponse struct {
	ID            int64   `json:"id"`
	InvoiceID     int64   `json:"invoice_id"`
	PaymentDate   string  `json:"payment_date"`
	Amount        float64 `json:"amount_paid"`
	Method        string  `json:"payment_method"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

func toInvoiceResponse(inv model.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:          inv.ID,
		CustomerID:  inv.CustomerID,
		Amount:      money.Float(inv.AmountCents),
		BillingDate: inv.BillingDate.Format(dateLayout),
		DueDate:     inv.DueDate.Format(dateLayout),
		Description: inv.Description,
		Status:      string(inv.Status),
	}
}

func toInvoiceListItem(inv model.InvoiceWithCustomer) invoiceListItem {
	return invoiceListItem{
		invoiceResponse:    toInvoiceResponse(inv.Invoice),
		CustomerName:       strings.TrimSpace(inv.CustomerFirstName + " " + inv.CustomerLastName),
		CustomerIdentifier: inv.CustomerIdentifier,
	}
}

func toPaymentResponse(p model.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		PaymentDate:   p.PaymentDate.Format(dateLayout),
		Amount:        money.Float(p.AmountCents),
		Method:        string(p.Method),
		TransactionID: p.TransactionID,
	}
}

func toPaymentResponses(payments []model.Payment) []paymentResponse {
	res := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		res = append(res, toPaymentResponse(p))
	}
	return res
}

// parseAmount переводит десятичную сумму запроса в центы, собирая ошибки.
func parseAmount(d decimal.Decimal, field string) (int64, []string) {
	cents, err := money.ToCents(d)
	if err != nil {
		return 0, []string{field + " must have at most two decimal places"}
	}
	if cents <= 0 {
		return 0, []string{field + " must be a positive number"}
	}
	return cents, nil
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func customerClaims(w http.ResponseWriter, r *http.Request) (middleware.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return middleware.Claims{}, false
	}
	if claims.CustomerID == 0 {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return middleware.Claims{}, false
	}
	return claims, true
}

// parseInvoiceFilter разбирает необязательные фильтры списка счетов.
// Пустой параметр не участвует в фильтрации.
func parseInvoiceFilter(r *http.Request) (repository.InvoiceFilter, []string) {
	var filter repository.InvoiceFilter
	var errs []string

	q := r.URL.Query()

	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, "customer_id must be a positive integer")
		} else {
			filter.CustomerID = &id
		}
	}

	if v := q.Get("status"); v != "" {
		status, err := model.ParseInvoiceStatus(v)
		if err != nil {
			errs = append(errs, "invalid status selected")
		} else {
			filter.Status = &status
		}
	}

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			errs = append(errs, "date_from must be a valid date (YYYY-MM-DD)")
		} else {
			filter.DateFrom = &t
		}
	}

	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			errs = append(errs, "date_to must be a valid date (YYYY-MM-DD)")
		} else {
			filter.DateTo = &t
		}
	}

	return filter, errs
}
