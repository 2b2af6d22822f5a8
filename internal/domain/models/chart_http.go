package models

// Requests for chart HTTP endpoints. Defined in domain for consistency and reuse.

type MNQDataRequest struct {
	Date string `query:"date" json:"date"`
}

type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" default:"MNQ=F"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}

type StreamRequest struct {
	TF string `query:"tf" json:"tf" default:"5m" validate:"oneof=30s 5m 15m"`
}
