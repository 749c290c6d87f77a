package conversation

import (
	"fmt"

	"stock-assistant/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatPrice renders a price the way an en-US locale would: grouped
// thousands and at most three fraction digits, e.g. $16,340 or $123.45.
func FormatPrice(d decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return "$" + p.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

// StockLabel is the "<name> (<code>)" form used in options and replies.
func StockLabel(s domain.Stock) string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Code)
}
