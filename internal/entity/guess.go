package entity

// Guess is a single user prediction for a round. The unique index enforces
// at most one guess per (round, user) pair.
type Guess struct {
	SnowFlakeBase

	RoundID string `gorm:"uniqueIndex:idx_guesses_round_user"`
	Round   Round  `gorm:"foreignKey:RoundID"`

	UserID string `gorm:"uniqueIndex:idx_guesses_round_user"`
	User   User   `gorm:"foreignKey:UserID"`

	Value       int
	DisplayName string
}
