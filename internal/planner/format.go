package planner

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type moneyFormatter struct {
	printer  *message.Printer
	currency string
}

func newMoneyFormatter(currency string) moneyFormatter {
	return moneyFormatter{
		printer:  message.NewPrinter(language.English),
		currency: currency,
	}
}

// format округляет сумму до целых и добавляет разделители разрядов.
func (m moneyFormatter) format(value float64) string {
	rounded := int64(math.Round(value))
	if rounded < 0 {
		return "-" + m.currency + m.printer.Sprintf("%d", -rounded)
	}
	return m.currency + m.printer.Sprintf("%d", rounded)
}
