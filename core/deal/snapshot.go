package deal

import (
	"encoding/json"
	"math"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
)

// AnalyzeParam is the query parameter that carries an encoded Snapshot to the assistant.
const AnalyzeParam = "analyze"

var ErrSnapshotNotFinite = errors.New("snapshot contains non-finite numbers")

// Snapshot is the summary of a deal handed off to the assistant for analysis.
type Snapshot struct {
	Price          float64 `json:"price"`
	ROI            float64 `json:"roi"`
	NetYield       float64 `json:"netYield"`
	Rent           float64 `json:"rent"`
	ServiceCharges float64 `json:"serviceCharges"`
	TotalInvested  float64 `json:"totalInvested"`
	Currency       string  `json:"currency"`
}

// NewSnapshot builds the hand-off summary of an evaluated deal.
// It fails when any figure is not finite; callers must then omit the export.
func NewSnapshot(in Inputs, res Results) (Snapshot, error) {
	s := Snapshot{
		Price:          in.PurchasePrice,
		ROI:            res.ROIPercent,
		NetYield:       res.NetYieldPercent,
		Rent:           in.MonthlyMarketRent,
		ServiceCharges: res.AnnualServiceCharges,
		TotalInvested:  res.TotalCashInvested,
		Currency:       Currency,
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (s Snapshot) Validate() error {
	for _, v := range []float64{s.Price, s.ROI, s.NetYield, s.Rent, s.ServiceCharges, s.TotalInvested} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewValidationError(ErrSnapshotNotFinite)
		}
	}
	if s.Currency == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "currency", Error: errRequired})
	}
	return nil
}

// Encode returns the URL-escaped JSON value of the analyze query parameter.
func (s Snapshot) Encode() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "marshalling snapshot")
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeSnapshot is the inverse of Snapshot.Encode. Already unescaped JSON is accepted too.
func DecodeSnapshot(raw string) (Snapshot, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		unescaped, err := url.QueryUnescape(raw)
		if err != nil {
			return Snapshot{}, core.NewValidationError(errors.Wrap(err, "invalid analyze parameter"))
		}
		raw = unescaped
	}

	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Snapshot{}, core.NewValidationError(errors.Wrap(err, "invalid analyze parameter"))
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
