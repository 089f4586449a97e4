// Package reconcile выводит статус счёта из накопленной истории платежей.
package reconcile

import "github.com/greenloop/wasteops/internal/model"

// Derive возвращает статус счёта по его сумме и сумме всех платежей,
// а также признак того, что статус отличается от текущего и требует записи.
//
// Правило: totalPaid >= amount — Paid; 0 < totalPaid < amount — Partially Paid;
// иначе статус не меняется. Статусы Cancelled и Overdue здесь никогда не
// назначаются и не снимаются: они выставляются только администратором
// или отображаются отчётом по просроченным счетам.
func Derive(amountCents, totalPaidCents int64, current model.InvoiceStatus) (model.InvoiceStatus, bool) {
	next := current
	switch {
	case totalPaidCents >= amountCents:
		next = model.InvoiceStatusPaid
	case totalPaidCents > 0:
		next = model.InvoiceStatusPartiallyPaid
	}
	return next, next != current
}
