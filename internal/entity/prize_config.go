package entity

// PrizeConfig is a versioned singleton; only the row with the highest
// version is authoritative. Old rows are kept as an audit trail.
type PrizeConfig struct {
	Base

	Version  int `gorm:"unique"`
	Currency string
	Amount   int64

	// Payouts maps a place ("1", "2", ...) to its share of Amount.
	Payouts Map
}
