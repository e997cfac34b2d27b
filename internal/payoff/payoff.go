package payoff

import (
	"math"
	"time"
)

// Input carries everything the calculation reads. Today is supplied by the
// caller (UTC midnight basis) so that identical inputs always produce
// identical statements.
type Input struct {
	CurrentPrincipal   float64
	AnnualInterestRate float64
	EscrowBalance      float64
	RecordingFee       float64
	ProcessingFee      float64
	Today              time.Time
	GoodThrough        time.Time
}

// Breakdown is a reproducible payoff statement as of the good-through date.
type Breakdown struct {
	CurrentPrincipal float64 `json:"current_principal"`
	PerDiem          float64 `json:"per_diem"`
	Days             int     `json:"days"`
	AccruedInterest  float64 `json:"accrued_interest"`
	EscrowCredit     float64 `json:"escrow_credit"`
	RecordingFee     float64 `json:"recording_fee"`
	ProcessingFee    float64 `json:"payoff_processing_fee"`
	TotalPayoff      float64 `json:"total_payoff"`
	GoodThroughDate  string  `json:"good_through_date"`
}

// Calculate produces a deterministic payoff breakdown. Both dates are
// truncated to UTC midnight before the day count; a good-through date in
// the past accrues zero interest (callers reject past dates before getting
// here). A positive escrow balance is returned to the borrower as a
// credit.
func Calculate(in Input) Breakdown {
	today := midnightUTC(in.Today)
	goodThrough := midnightUTC(in.GoodThrough)

	days := int(goodThrough.Sub(today).Hours() / 24)
	if days < 0 {
		days = 0
	}

	dailyRate := in.AnnualInterestRate / 365
	rawPerDiem := in.CurrentPrincipal * dailyRate
	accrued := round2(rawPerDiem * float64(days))

	escrowCredit := 0.0
	if in.EscrowBalance > 0 {
		escrowCredit = -in.EscrowBalance
	}

	total := round2(in.CurrentPrincipal + accrued + escrowCredit + in.RecordingFee + in.ProcessingFee)

	return Breakdown{
		CurrentPrincipal: in.CurrentPrincipal,
		PerDiem:          round2(rawPerDiem),
		Days:             days,
		AccruedInterest:  accrued,
		EscrowCredit:     escrowCredit,
		RecordingFee:     in.RecordingFee,
		ProcessingFee:    in.ProcessingFee,
		TotalPayoff:      total,
		GoodThroughDate:  goodThrough.Format("2006-01-02"),
	}
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
