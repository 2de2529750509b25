package deal

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/startsmart/property/core"
)

const (
	errRequired     = "this field is required"
	errNotANumber   = "must be a number"
	errNotAnInteger = "must be a whole number of years"
)

// FormInputs holds the raw strings of the analyzer form, as typed by the user.
type FormInputs struct {
	PurchasePrice             string `query:"purchase_price" form:"purchase_price"`
	RenovationBudget          string `query:"renovation_budget" form:"renovation_budget"`
	PropertySizeSqFt          string `query:"property_size_sqft" form:"property_size_sqft"`
	ServiceChargePerSqFt      string `query:"service_charge_per_sqft" form:"service_charge_per_sqft"`
	DepositPercent            string `query:"deposit_percent" form:"deposit_percent"`
	AnnualInterestRatePercent string `query:"annual_interest_rate_percent" form:"annual_interest_rate_percent"`
	LoanTermYears             string `query:"loan_term_years" form:"loan_term_years"`
	MonthlyMarketRent         string `query:"monthly_market_rent" form:"monthly_market_rent"`
	OtherMonthlyExpenses      string `query:"other_monthly_expenses" form:"other_monthly_expenses"`
}

// ParseForm parses form values keyed by their API field name.
func ParseForm(values map[string]string) (Inputs, error) {
	return FormInputs{
		PurchasePrice:             values[fldPurchasePrice],
		RenovationBudget:          values[fldRenovation],
		PropertySizeSqFt:          values[fldPropertySize],
		ServiceChargePerSqFt:      values[fldServiceCharge],
		DepositPercent:            values[fldDepositPercent],
		AnnualInterestRatePercent: values[fldInterestRate],
		LoanTermYears:             values[fldLoanTerm],
		MonthlyMarketRent:         values[fldMonthlyRent],
		OtherMonthlyExpenses:      values[fldOtherExpenses],
	}.Parse()
}

// Parse converts every field to its typed value. Unparsable, NaN and infinite values are
// rejected with a core.ValidationError naming each offending field; no value is coerced.
// The parsed Inputs still need Validate (or Evaluate) to check their domain.
func (f FormInputs) Parse() (Inputs, error) {
	var (
		in   Inputs
		flds []core.FieldError
	)
	floats := []struct {
		field string
		raw   string
		dst   *float64
	}{
		{fldPurchasePrice, f.PurchasePrice, &in.PurchasePrice},
		{fldRenovation, f.RenovationBudget, &in.RenovationBudget},
		{fldPropertySize, f.PropertySizeSqFt, &in.PropertySizeSqFt},
		{fldServiceCharge, f.ServiceChargePerSqFt, &in.ServiceChargePerSqFt},
		{fldDepositPercent, f.DepositPercent, &in.DepositPercent},
		{fldInterestRate, f.AnnualInterestRatePercent, &in.AnnualInterestRatePercent},
		{fldMonthlyRent, f.MonthlyMarketRent, &in.MonthlyMarketRent},
		{fldOtherExpenses, f.OtherMonthlyExpenses, &in.OtherMonthlyExpenses},
	}
	for _, fl := range floats {
		v, msg := parseFloat(fl.raw)
		if msg != "" {
			flds = append(flds, core.FieldError{Field: fl.field, Error: msg})
			continue
		}
		*fl.dst = v
	}

	if raw := strings.TrimSpace(f.LoanTermYears); raw == "" {
		flds = append(flds, core.FieldError{Field: fldLoanTerm, Error: errRequired})
	} else if years, err := strconv.Atoi(raw); err != nil {
		flds = append(flds, core.FieldError{Field: fldLoanTerm, Error: errNotAnInteger})
	} else {
		in.LoanTermYears = years
	}

	if flds != nil {
		return Inputs{}, core.NewValidationError(nil, flds...)
	}
	return in, nil
}

func parseFloat(raw string) (float64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errRequired
	}
	v, err := strconv.ParseFloat(raw, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, errNotFinite
	} else if err != nil {
		return 0, errNotANumber
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, ""
}
