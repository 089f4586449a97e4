// Package money отвечает за преобразование денежных сумм между внешним
// десятичным представлением и целыми центами, в которых суммы хранятся в БД.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSubCentPrecision возвращается, если сумма содержит дробные доли цента.
var ErrSubCentPrecision = errors.New("amount has more than two decimal places")

var hundred = decimal.NewFromInt(100)

// ToCents переводит десятичную сумму в центы. Суммы с точностью выше
// двух знаков после запятой отклоняются, а не округляются.
func ToCents(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, ErrSubCentPrecision
	}
	return scaled.IntPart(), nil
}

// FromCents переводит центы обратно в десятичную сумму.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// Float переводит центы в float64 для JSON-ответов.
func Float(cents int64) float64 {
	return FromCents(cents).InexactFloat64()
}
