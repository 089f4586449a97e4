package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/greenloop/wasteops/internal/model"
	"github.com/greenloop/wasteops/internal/reconcile"
)

// InvoiceFilter задаёт необязательные условия выборки счетов.
// Незаданное поле не участвует в фильтрации; условия объединяются по AND.
type InvoiceFilter struct {
	CustomerID *int64
	Status     *model.InvoiceStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}

// CreateInvoice создаёт счёт со статусом Pending и возвращает его id.
func (r *PostgresRepository) CreateInvoice(ctx context.Context, customerID, amountCents int64, billingDate, dueDate time.Time, description string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO invoices (customer_id, amount_cents, billing_date, due_date, description, status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		customerID, amountCents, billingDate, dueDate, description, string(model.InvoiceStatusPending),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
		}
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	return id, nil
}

// GetInvoice возвращает счёт по id.
func (r *PostgresRepository) GetInvoice(ctx context.Context, invoiceID int64) (*model.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, amount_cents, billing_date, due_date, description, status, created_at
		 FROM invoices WHERE id = $1`,
		invoiceID,
	)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return inv, nil
}

// ListInvoices возвращает счета с данными клиента. Выборка упорядочена
// по дате выставления и id по убыванию; фильтры объединяются по AND.
func (r *PostgresRepository) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.InvoiceWithCustomer, error) {
	query := `SELECT i.id, i.customer_id, i.amount_cents, i.billing_date, i.due_date,
	                 i.description, i.status, i.created_at,
	                 u.first_name, u.last_name, c.identifier
	          FROM invoices i
	          JOIN customers c ON c.id = i.customer_id
	          JOIN users u ON u.id = c.user_id
	          WHERE 1=1`
	var args []any

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND i.customer_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND i.billing_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND i.billing_date <= $%d", len(args))
	}

	query += " ORDER BY i.billing_date DESC, i.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoicesWithCustomer(rows)
}

// ListOverdueInvoices возвращает счета, просроченные на указанную дату.
// Это отчётная выборка: статус Overdue здесь не записывается в счёт.
func (r *PostgresRepository) ListOverdueInvoices(ctx context.Context, today time.Time) ([]model.InvoiceWithCustomer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.customer_id, i.amount_cents, i.billing_date, i.due_date,
		        i.description, i.status, i.created_at,
		        u.first_name, u.last_name, c.identifier
		 FROM invoices i
		 JOIN customers c ON c.id = i.customer_id
		 JOIN users u ON u.id = c.user_id
		 WHERE i.due_date < $1
		   AND i.status NOT IN ($2, $3, $4)
		 ORDER BY i.due_date ASC`,
		today,
		string(model.InvoiceStatusPaid),
		string(model.InvoiceStatusCancelled),
		string(model.InvoiceStatusPartiallyPaid),
	)
	if err != nil {
		return nil, fmt.Errorf("select overdue invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoicesWithCustomer(rows)
}

// GetInvoicesByCustomer возвращает счета клиента, новые первыми.
func (r *PostgresRepository) GetInvoicesByCustomer(ctx context.Context, customerID int64) ([]model.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_id, amount_cents, billing_date, due_date, description, status, created_at
		 FROM invoices
		 WHERE customer_id = $1
		 ORDER BY billing_date DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select customer invoices: %w", err)
	}
	defer rows.Close()

	var res []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		res = append(res, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateInvoiceStatus безусловно перезаписывает статус счёта.
// Граф переходов между статусами намеренно не проверяется.
func (r *PostgresRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID int64, status model.InvoiceStatus) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $2 WHERE id = $1`,
		invoiceID, string(status),
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// RecordPayment добавляет платёж и в той же транзакции пересчитывает статус
// счёта по накопленной сумме платежей. Строка счёта блокируется до вставки
// платежа и удерживается до записи статуса, что сериализует параллельные
// платежи по одному счёту. Возвращает id платежа, итоговый статус счёта и
// признак того, что статус был изменён.
func (r *PostgresRepository) RecordPayment(ctx context.Context, invoiceID int64, paymentDate time.Time, amountCents int64, method model.PaymentMethod, transactionID *string) (int64, model.InvoiceStatus, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, "", false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var invoiceAmount int64
	var currentStatus string
	err = tx.QueryRow(ctx,
		`SELECT amount_cents, status FROM invoices WHERE id = $1 FOR UPDATE`,
		invoiceID,
	).Scan(&invoiceAmount, &currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", false, ErrInvoiceNotFound
		}
		return 0, "", false, fmt.Errorf("lock invoice for update: %w", err)
	}

	var paymentID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO payments (invoice_id, payment_date, amount_cents, method, transaction_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		invoiceID, paymentDate, amountCents, string(method), transactionID,
	).Scan(&paymentID)
	if err != nil {
		return 0, "", false, fmt.Errorf("insert payment: %w", err)
	}

	var totalPaid int64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE invoice_id = $1`,
		invoiceID,
	).Scan(&totalPaid)
	if err != nil {
		return 0, "", false, fmt.Errorf("sum payments: %w", err)
	}

	newStatus, changed := reconcile.Derive(invoiceAmount, totalPaid, model.InvoiceStatus(currentStatus))
	if changed {
		_, err = tx.Exec(ctx,
			`UPDATE invoices SET status = $2 WHERE id = $1`,
			invoiceID, string(newStatus),
		)
		if err != nil {
			return 0, "", false, fmt.Errorf("update invoice status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, "", false, fmt.Errorf("commit tx: %w", err)
	}

	return paymentID, newStatus, changed, nil
}

// GetPaymentsByInvoice возвращает платежи по счёту, новые первыми.
func (r *PostgresRepository) GetPaymentsByInvoice(ctx context.Context, invoiceID int64) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, payment_date, amount_cents, method, transaction_id, created_at
		 FROM payments
		 WHERE invoice_id = $1
		 ORDER BY payment_date DESC`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	defer rows.Close()

	var res []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetPaymentsByCustomer возвращает историю платежей клиента по всем его счетам.
func (r *PostgresRepository) GetPaymentsByCustomer(ctx context.Context, customerID int64) ([]model.CustomerPayment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.invoice_id, p.payment_date, p.amount_cents, p.method, p.transaction_id, p.created_at,
		        i.description, i.billing_date
		 FROM payments p
		 JOIN invoices i ON i.id = p.invoice_id
		 WHERE i.customer_id = $1
		 ORDER BY p.payment_date DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select customer payments: %w", err)
	}
	defer rows.Close()

	var res []model.CustomerPayment
	for rows.Next() {
		var cp model.CustomerPayment
		var method string
		err := rows.Scan(&cp.ID, &cp.InvoiceID, &cp.PaymentDate, &cp.AmountCents, &method,
			&cp.TransactionID, &cp.CreatedAt, &cp.InvoiceDescription, &cp.BillingDate)
		if err != nil {
			return nil, fmt.Errorf("scan customer payment: %w", err)
		}
		cp.Method = model.PaymentMethod(method)
		res = append(res, cp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var inv model.Invoice
	var status string
	err := row.Scan(&inv.ID, &inv.CustomerID, &inv.AmountCents, &inv.BillingDate,
		&inv.DueDate, &inv.Description, &status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = model.InvoiceStatus(status)
	return &inv, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	var method string
	err := row.Scan(&p.ID, &p.InvoiceID, &p.PaymentDate, &p.AmountCents, &method,
		&p.TransactionID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Method = model.PaymentMethod(method)
	return &p, nil
}

func collectInvoicesWithCustomer(rows pgx.Rows) ([]model.InvoiceWithCustomer, error) {
	var res []model.InvoiceWithCustomer
	for rows.Next() {
		var iv model.InvoiceWithCustomer
		var status string
		err := rows.Scan(&iv.ID, &iv.CustomerID, &iv.AmountCents, &iv.BillingDate,
			&iv.DueDate, &iv.Description, &status, &iv.CreatedAt,
			&iv.CustomerFirstName, &iv.CustomerLastName, &iv.CustomerIdentifier)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		iv.Status = model.InvoiceStatus(status)
		res = append(res, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
