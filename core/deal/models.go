package deal

import (
	"time"

	"github.com/startsmart/property/core"
)

const (
	TransferFeeRate = 0.04 // DLD transfer fee
	AgencyFeeRate   = 0.02
	Currency        = "AED"

	MaxLoanTermYears = 100
)

// Inputs are the nine figures of the deal analyzer form.
type Inputs struct {
	PurchasePrice             float64 `json:"purchase_price" validate:"finite,gte=0"`
	RenovationBudget          float64 `json:"renovation_budget" validate:"finite,gte=0"`
	PropertySizeSqFt          float64 `json:"property_size_sqft" validate:"finite,gte=0"`
	ServiceChargePerSqFt      float64 `json:"service_charge_per_sqft" validate:"finite,gte=0"`
	DepositPercent            float64 `json:"deposit_percent" validate:"finite,gte=0,lte=100"`
	AnnualInterestRatePercent float64 `json:"annual_interest_rate_percent" validate:"finite,gte=0"`
	LoanTermYears             int     `json:"loan_term_years" validate:"gt=0,lte=100"`
	MonthlyMarketRent         float64 `json:"monthly_market_rent" validate:"finite,gte=0"`
	OtherMonthlyExpenses      float64 `json:"other_monthly_expenses" validate:"finite,gte=0"`
}

// Results are derived from Inputs by Evaluate and have no identity of their own.
type Results struct {
	TransferFee            float64 `json:"transfer_fee"`
	AgencyFee              float64 `json:"agency_fee"`
	DepositAmount          float64 `json:"deposit_amount"`
	LoanAmount             float64 `json:"loan_amount"`
	TotalCashInvested      float64 `json:"total_cash_invested"`
	MonthlyMortgagePayment float64 `json:"monthly_mortgage_payment"`
	AnnualServiceCharges   float64 `json:"annual_service_charges"`
	MonthlyCashflow        float64 `json:"monthly_cashflow"`
	ROIPercent             float64 `json:"roi_percent"`
	NetYieldPercent        float64 `json:"net_yield_percent"`
}

// Evaluation is what the analyzer screen displays for one set of inputs.
type Evaluation struct {
	Inputs   Inputs    `json:"inputs"`
	Results  Results   `json:"results"`
	Snapshot *Snapshot `json:"snapshot,omitempty"` // nil when the export is unavailable
}

// Analysis is an evaluation saved by a user.
type Analysis struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Inputs    Inputs    `json:"inputs"`
	Results   Results   `json:"results"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewAnalysis contains information needed to save an Analysis.
type NewAnalysis struct {
	Title  string `json:"title" validate:"required,notblank,max=200"`
	Inputs Inputs `json:"inputs" validate:"-"` // see Inputs.Validate
}

func (na *NewAnalysis) Clean() {
	na.Title = core.CleanString(na.Title)
}

// DefaultInputs returns the figures the analyzer form opens with.
func DefaultInputs() Inputs {
	return Inputs{
		PurchasePrice:             1500000,
		RenovationBudget:          50000,
		PropertySizeSqFt:          1200,
		ServiceChargePerSqFt:      15,
		DepositPercent:            25,
		AnnualInterestRatePercent: 4.5,
		LoanTermYears:             25,
		MonthlyMarketRent:         12000,
		OtherMonthlyExpenses:      500,
	}
}
