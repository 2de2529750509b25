package deal

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/property/core"
)

const epsilon = 1e-9

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name    string
		loan    float64
		rate    float64
		years   int
		want    float64
		wantErr bool
	}{
		{name: "reference loan", loan: 1125000, rate: 4.5, years: 25, want: 6253.115377072449},
		{name: "zero interest is straight line", loan: 1200000, rate: 0, years: 25, want: 4000},
		{name: "zero loan", loan: 0, rate: 4.5, years: 25, want: 0},
		{name: "zero term", loan: 1000, rate: 4.5, years: 0, wantErr: true},
		{name: "negative term", loan: 1000, rate: 4.5, years: -5, wantErr: true},
		{name: "negative loan", loan: -1000, rate: 4.5, years: 25, wantErr: true},
		{name: "negative rate", loan: 1000, rate: -1, years: 25, wantErr: true},
		{name: "NaN rate", loan: 1000, rate: math.NaN(), years: 25, wantErr: true},
		{name: "infinite loan", loan: math.Inf(1), rate: 4.5, years: 25, wantErr: true},
		{name: "longest term", loan: 1200000, rate: 0, years: MaxLoanTermYears, want: 1000},
		{name: "term over 100 years", loan: 1000, rate: 4.5, years: MaxLoanTermYears + 1, wantErr: true},
		{name: "term overflowing months", loan: 1125000, rate: 0, years: math.MaxInt64/12 + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyPayment(tt.loan, tt.rate, tt.years)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err), "want ValidationError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestMonthlyPayment_ZeroInterestExact(t *testing.T) {
	for _, years := range []int{1, 5, 10, 25, 30} {
		loan := 987654.32
		got, err := MonthlyPayment(loan, 0, years)
		require.NoError(t, err)
		assert.Equal(t, loan/float64(years*12), got)
	}
}

func TestEvaluate_Reference(t *testing.T) {
	res, err := Evaluate(DefaultInputs())
	require.NoError(t, err)

	assert.Equal(t, 60000.0, res.TransferFee)
	assert.Equal(t, 30000.0, res.AgencyFee)
	assert.Equal(t, 375000.0, res.DepositAmount)
	assert.Equal(t, 1125000.0, res.LoanAmount)
	assert.Equal(t, 18000.0, res.AnnualServiceCharges)
	assert.Equal(t, 515000.0, res.TotalCashInvested)
	assert.InDelta(t, 6253.12, res.MonthlyMortgagePayment, 0.01)
	assert.InDelta(t, 12000-res.MonthlyMortgagePayment-(1500+500), res.MonthlyCashflow, epsilon)
	assert.InDelta(t, res.MonthlyCashflow*12/515000*100, res.ROIPercent, epsilon)
	assert.InDelta(t, 8.73, res.ROIPercent, 0.01)
	assert.InDelta(t, 8.0, res.NetYieldPercent, epsilon)
}

func TestEvaluate_TotalCashInvestedIsExactSum(t *testing.T) {
	inputs := []Inputs{
		DefaultInputs(),
		{PurchasePrice: 725000, RenovationBudget: 12500.5, DepositPercent: 20, AnnualInterestRatePercent: 3.99, LoanTermYears: 15},
		{PurchasePrice: 3333333.33, DepositPercent: 80, AnnualInterestRatePercent: 0, LoanTermYears: 1, MonthlyMarketRent: 1},
	}
	for _, in := range inputs {
		res, err := Evaluate(in)
		require.NoError(t, err)
		assert.Equal(t, res.DepositAmount+res.TransferFee+res.AgencyFee+in.RenovationBudget, res.TotalCashInvested)
	}
}

func TestEvaluate_FeesScaleWithPrice(t *testing.T) {
	base := DefaultInputs()
	baseRes, err := Evaluate(base)
	require.NoError(t, err)

	for _, k := range []float64{0.5, 2, 4, 10} {
		in := base
		in.PurchasePrice = base.PurchasePrice * k
		res, err := Evaluate(in)
		require.NoError(t, err)
		assert.InDelta(t, baseRes.TransferFee*k, res.TransferFee, epsilon)
		assert.InDelta(t, baseRes.AgencyFee*k, res.AgencyFee, epsilon)
	}
}

func TestEvaluate_ZeroInterest(t *testing.T) {
	in := DefaultInputs()
	in.AnnualInterestRatePercent = 0
	res, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, res.LoanAmount/float64(in.LoanTermYears*12), res.MonthlyMortgagePayment)
}

func TestEvaluate_Idempotent(t *testing.T) {
	in := DefaultInputs()
	first, err := Evaluate(in)
	require.NoError(t, err)
	second, err := Evaluate(in)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first.ROIPercent), math.Float64bits(second.ROIPercent))
	assert.Equal(t, math.Float64bits(first.MonthlyMortgagePayment), math.Float64bits(second.MonthlyMortgagePayment))
	assert.Equal(t, first, second)
}

func TestEvaluate_Errors(t *testing.T) {
	with := func(f func(in *Inputs)) Inputs {
		in := DefaultInputs()
		f(&in)
		return in
	}

	tests := []struct {
		name        string
		in          Inputs
		wantInvalid bool // InvalidInputError rather than ValidationError
		wantFields  []string
	}{
		{name: "zero loan term", in: with(func(in *Inputs) { in.LoanTermYears = 0 }), wantFields: []string{fldLoanTerm}},
		{name: "negative loan term", in: with(func(in *Inputs) { in.LoanTermYears = -1 }), wantFields: []string{fldLoanTerm}},
		{name: "negative price", in: with(func(in *Inputs) { in.PurchasePrice = -1 }), wantFields: []string{fldPurchasePrice}},
		{name: "negative renovation", in: with(func(in *Inputs) { in.RenovationBudget = -1 }), wantFields: []string{fldRenovation}},
		{name: "negative size", in: with(func(in *Inputs) { in.PropertySizeSqFt = -1 }), wantFields: []string{fldPropertySize}},
		{name: "negative service charge", in: with(func(in *Inputs) { in.ServiceChargePerSqFt = -1 }), wantFields: []string{fldServiceCharge}},
		{name: "negative rate", in: with(func(in *Inputs) { in.AnnualInterestRatePercent = -0.5 }), wantFields: []string{fldInterestRate}},
		{name: "negative rent", in: with(func(in *Inputs) { in.MonthlyMarketRent = -1 }), wantFields: []string{fldMonthlyRent}},
		{name: "negative expenses", in: with(func(in *Inputs) { in.OtherMonthlyExpenses = -1 }), wantFields: []string{fldOtherExpenses}},
		{name: "loan term over 100", in: with(func(in *Inputs) { in.LoanTermYears = MaxLoanTermYears + 1 }), wantFields: []string{fldLoanTerm}},
		{name: "loan term overflowing months", in: with(func(in *Inputs) { in.LoanTermYears = math.MaxInt64/12 + 1 }), wantFields: []string{fldLoanTerm}},
		{name: "deposit over 100", in: with(func(in *Inputs) { in.DepositPercent = 101 }), wantFields: []string{fldDepositPercent}},
		{name: "NaN rent", in: with(func(in *Inputs) { in.MonthlyMarketRent = math.NaN() }), wantFields: []string{fldMonthlyRent}},
		{name: "infinite price", in: with(func(in *Inputs) { in.PurchasePrice = math.Inf(1) }), wantFields: []string{fldPurchasePrice}},
		{
			name:       "several fields",
			in:         with(func(in *Inputs) { in.PurchasePrice = -1; in.LoanTermYears = 0; in.OtherMonthlyExpenses = math.Inf(-1) }),
			wantFields: []string{fldPurchasePrice, fldOtherExpenses, fldLoanTerm},
		},
		{name: "zero price", in: with(func(in *Inputs) { in.PurchasePrice = 0 }), wantInvalid: true},
		{
			name:        "zero cash invested",
			in:          with(func(in *Inputs) { in.PurchasePrice = 0; in.RenovationBudget = 0 }),
			wantInvalid: true,
		},
		{
			name:        "overflow",
			in:          with(func(in *Inputs) { in.PurchasePrice = math.MaxFloat64; in.DepositPercent = 100 }),
			wantInvalid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.in)
			require.Error(t, err)
			assert.Equal(t, Results{}, res)

			if tt.wantInvalid {
				assert.True(t, core.IsInvalidInput(err), "want InvalidInputError, got %T", err)
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok, "want ValidationError, got %T", err)
			fields := make([]string, 0, len(vErr.Fields))
			for _, f := range vErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestInputs_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *Inputs)
		field   string
		wantMsg string
	}{
		{name: "negative", mutate: func(in *Inputs) { in.MonthlyMarketRent = -1 }, field: fldMonthlyRent, wantMsg: "must be greater than or equal to 0"},
		{name: "NaN", mutate: func(in *Inputs) { in.PropertySizeSqFt = math.NaN() }, field: fldPropertySize, wantMsg: errNotFinite},
		{name: "negative infinity", mutate: func(in *Inputs) { in.ServiceChargePerSqFt = math.Inf(-1) }, field: fldServiceCharge, wantMsg: errNotFinite},
		{name: "deposit over 100", mutate: func(in *Inputs) { in.DepositPercent = 100.5 }, field: fldDepositPercent, wantMsg: "must be 100 or less"},
		{name: "zero term", mutate: func(in *Inputs) { in.LoanTermYears = 0 }, field: fldLoanTerm, wantMsg: "must be greater than 0"},
		{name: "term over 100", mutate: func(in *Inputs) { in.LoanTermYears = 250 }, field: fldLoanTerm, wantMsg: "must be 100 or less"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultInputs()
			tt.mutate(&in)

			vErr, ok := errors.Cause(in.Validate()).(*core.ValidationError)
			require.True(t, ok, "want ValidationError")
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
			assert.Equal(t, tt.wantMsg, vErr.Fields[0].Error)
		})
	}

	assert.NoError(t, DefaultInputs().Validate())
}

func TestEvaluate_OverflowIsNotBlamedOnPrice(t *testing.T) {
	in := DefaultInputs()
	in.PurchasePrice = math.MaxFloat64
	in.DepositPercent = 100

	_, err := Evaluate(in)
	iErr, ok := errors.Cause(err).(*core.InvalidInputError)
	require.True(t, ok, "want InvalidInputError, got %T", err)
	assert.Equal(t, fldInputs, iErr.Field)
	assert.Equal(t, errOverflow, iErr.Reason)
}

func TestEvaluate_CashPurchase(t *testing.T) {
	in := DefaultInputs()
	in.DepositPercent = 100
	res, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.LoanAmount)
	assert.Equal(t, 0.0, res.MonthlyMortgagePayment)
	assert.True(t, math.IsInf(InterestCover(in, res), 1))
}
