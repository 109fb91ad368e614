package model

type PrizeConfig struct {
	Version  int            `json:"version"`
	Currency string         `json:"currency"`
	Amount   int64          `json:"amount"`
	Payouts  map[string]any `json:"payouts"`
}

type SetPrizeConfigRequest struct {
	Currency string         `json:"currency"`
	Amount   int64          `json:"amount"`
	Payouts  map[string]any `json:"payouts"`
}

type SetPrizeConfigResponse struct {
	Config PrizeConfig `json:"config"`
}

type GetPrizeConfigRequest struct{}

type GetPrizeConfigResponse struct {
	Config PrizeConfig `json:"config"`
}
