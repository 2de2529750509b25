package deal

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinInterestCover is the ratio under which lenders flag a deal.
var MinInterestCover = decimal.NewFromFloat(1.25)

// Memo renders a plain-text deal memo of a saved analysis. Amounts are rounded half away from zero to 2 decimals.
func Memo(a Analysis) string {
	in, res := a.Inputs, a.Results
	var b strings.Builder

	line := func(label, value string) {
		_, _ = fmt.Fprintf(&b, "  %-28s %s\n", label, value)
	}
	section := func(title string) {
		_, _ = fmt.Fprintf(&b, "\n%s\n", title)
	}

	_, _ = fmt.Fprintln(&b, "STARTSMART PROPERTY | DEAL MEMO")
	_, _ = fmt.Fprintln(&b, a.Title)
	if !a.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(&b, "Prepared %s\n", a.CreatedAt.Format("02 Jan 2006"))
	}

	section("ACQUISITION")
	line("Purchase price", FormatAmount(in.PurchasePrice))
	line(fmt.Sprintf("Deposit (%s)", FormatPercent(in.DepositPercent)), FormatAmount(res.DepositAmount))
	line("DLD transfer fee (4%)", FormatAmount(res.TransferFee))
	line("Agency fee (2%)", FormatAmount(res.AgencyFee))
	line("Renovation budget", FormatAmount(in.RenovationBudget))
	line("Total cash invested", FormatAmount(res.TotalCashInvested))

	section("FINANCING")
	line("Loan amount", FormatAmount(res.LoanAmount))
	line("Interest rate", FormatPercent(in.AnnualInterestRatePercent))
	line("Term", fmt.Sprintf("%d years", in.LoanTermYears))
	line("Monthly mortgage", FormatAmount(res.MonthlyMortgagePayment))

	section("OPERATIONS")
	line("Monthly market rent", FormatAmount(in.MonthlyMarketRent))
	line("Annual service charges", FormatAmount(res.AnnualServiceCharges))
	line("Other monthly expenses", FormatAmount(in.OtherMonthlyExpenses))
	line("Monthly cashflow", FormatAmount(res.MonthlyCashflow))

	section("RETURNS")
	line("Cash-on-cash ROI", FormatPercent(res.ROIPercent))
	line("Net yield", FormatPercent(res.NetYieldPercent))

	cover := InterestCover(in, res)
	section("LENDER CHECK")
	if math.IsInf(cover, 1) {
		line("Interest cover", "n/a (cash purchase)")
	} else {
		rounded := decimal.NewFromFloat(cover).Round(2)
		line("Interest cover", rounded.StringFixed(2)+"x")
		if rounded.LessThan(MinInterestCover) {
			_, _ = fmt.Fprintf(&b, "  WARNING: interest cover below %sx is a red flag for lenders.\n", MinInterestCover.StringFixed(2))
		}
	}
	_, _ = fmt.Fprintln(&b, `  Always verify your "Other Expenses" with a local property manager to ensure net yield accuracy.`)

	return b.String()
}

// FormatAmount formats v as "AED 1,234,567.89".
func FormatAmount(v float64) string {
	if !isFinite(v) {
		return "n/a"
	}
	s := decimal.NewFromFloat(v).Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	s = groupThousands(intPart) + frac
	if neg {
		s = "-" + s
	}
	return Currency + " " + s
}

// FormatNumber groups thousands and keeps at most 3 decimals, trailing zeros dropped.
func FormatNumber(v float64) string {
	if !isFinite(v) {
		return "n/a"
	}
	s := decimal.NewFromFloat(v).Round(3).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	s = groupThousands(intPart) + frac
	if neg {
		s = "-" + s
	}
	return s
}

// FormatPercent formats v with 2 decimals and a percent sign.
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).Round(2).StringFixed(2) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
