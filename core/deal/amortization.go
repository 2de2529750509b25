package deal

import (
	"math"

	"github.com/startsmart/property/core"
)

// MonthlyPayment returns the fixed monthly payment that fully repays loanAmount over termYears.
// A zero rate is repaid in straight line.
func MonthlyPayment(loanAmount, annualRatePercent float64, termYears int) (float64, error) {
	var flds []core.FieldError
	if msg := checkVar(loanAmount, amountTag); msg != "" {
		flds = append(flds, core.FieldError{Field: "loan_amount", Error: msg})
	}
	if msg := checkVar(annualRatePercent, amountTag); msg != "" {
		flds = append(flds, core.FieldError{Field: fldInterestRate, Error: msg})
	}
	if msg := checkVar(termYears, loanTermTag); msg != "" {
		flds = append(flds, core.FieldError{Field: fldLoanTerm, Error: msg})
	}
	if flds != nil {
		return 0, core.NewValidationError(nil, flds...)
	}
	return monthlyPayment(loanAmount, annualRatePercent, termYears), nil
}

func monthlyPayment(loanAmount, annualRatePercent float64, termYears int) float64 {
	r := annualRatePercent / 100 / 12
	n := float64(termYears) * 12
	if r == 0 {
		return loanAmount / n
	}
	f := math.Pow(1+r, n)
	return loanAmount * (r * f) / (f - 1)
}
