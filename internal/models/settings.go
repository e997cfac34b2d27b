package models

// WireInstructions tells a borrower where to send payoff funds
type WireInstructions struct {
	BankName      string `json:"bank_name"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	Reference     string `json:"reference"`
}

// FeeSchedule holds the organization-wide fees applied to payoff statements
type FeeSchedule struct {
	RecordingFee        float64 `json:"recording_fee"`
	PayoffProcessingFee float64 `json:"payoff_processing_fee"`
}

// OrgConfig is the single-row organization configuration
type OrgConfig struct {
	WireInstructions WireInstructions `json:"wire_instructions"`
	FeeSchedule      FeeSchedule      `json:"fee_schedule"`
}
