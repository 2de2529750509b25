package deal

import (
	"math"

	"github.com/startsmart/property/core"
)

// field names, as exposed by the API
const (
	fldPurchasePrice  = "purchase_price"
	fldRenovation     = "renovation_budget"
	fldPropertySize   = "property_size_sqft"
	fldServiceCharge  = "service_charge_per_sqft"
	fldDepositPercent = "deposit_percent"
	fldInterestRate   = "annual_interest_rate_percent"
	fldLoanTerm       = "loan_term_years"
	fldMonthlyRent    = "monthly_market_rent"
	fldOtherExpenses  = "other_monthly_expenses"
	fldTotalInvested  = "total_cash_invested"
	fldInputs         = "inputs"
	errNotFinite      = "must be a finite number"
	errDivisionByZero = "must not be 0"
	errOverflow       = "figures are too large to evaluate"
)

const amountTag = "finite,gte=0"

// Validate rejects inputs outside their domain. It reports every offending field.
func (in Inputs) Validate() error {
	if err := inputsValidate.Struct(in); err != nil {
		return toValidationError(err)
	}
	return nil
}

// Evaluate derives the deal Results from in. It has no side effects.
func Evaluate(in Inputs) (Results, error) {
	if err := in.Validate(); err != nil {
		return Results{}, err
	}
	if in.PurchasePrice == 0 {
		return Results{}, core.NewInvalidInputError(fldPurchasePrice, errDivisionByZero)
	}

	var res Results
	res.TransferFee = in.PurchasePrice * TransferFeeRate
	res.AgencyFee = in.PurchasePrice * AgencyFeeRate
	res.DepositAmount = in.PurchasePrice * in.DepositPercent / 100
	res.LoanAmount = in.PurchasePrice - res.DepositAmount
	res.TotalCashInvested = res.DepositAmount + res.TransferFee + res.AgencyFee + in.RenovationBudget
	if res.TotalCashInvested == 0 {
		return Results{}, core.NewInvalidInputError(fldTotalInvested, errDivisionByZero)
	}

	res.MonthlyMortgagePayment = monthlyPayment(res.LoanAmount, in.AnnualInterestRatePercent, in.LoanTermYears)
	res.AnnualServiceCharges = in.PropertySizeSqFt * in.ServiceChargePerSqFt
	res.MonthlyCashflow = in.MonthlyMarketRent - res.MonthlyMortgagePayment - (res.AnnualServiceCharges/12 + in.OtherMonthlyExpenses)
	res.ROIPercent = (res.MonthlyCashflow * 12 / res.TotalCashInvested) * 100
	res.NetYieldPercent = ((in.MonthlyMarketRent*12 - res.AnnualServiceCharges - in.OtherMonthlyExpenses*12) / in.PurchasePrice) * 100

	if !res.finite() {
		return Results{}, core.NewInvalidInputError(fldInputs, errOverflow)
	}
	return res, nil
}

func (res Results) finite() bool {
	for _, v := range []float64{
		res.TransferFee, res.AgencyFee, res.DepositAmount, res.LoanAmount, res.TotalCashInvested,
		res.MonthlyMortgagePayment, res.AnnualServiceCharges, res.MonthlyCashflow, res.ROIPercent, res.NetYieldPercent,
	} {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AnnualNetIncome is the rent left after service charges and other expenses, before financing.
func AnnualNetIncome(in Inputs, res Results) float64 {
	return in.MonthlyMarketRent*12 - res.AnnualServiceCharges - in.OtherMonthlyExpenses*12
}

// InterestCover is the annual net income over the annual mortgage cost. It is +Inf for a cash purchase.
func InterestCover(in Inputs, res Results) float64 {
	debt := res.MonthlyMortgagePayment * 12
	if debt == 0 {
		return math.Inf(1)
	}
	return AnnualNetIncome(in, res) / debt
}
