package entity

import (
	"database/sql"
	"time"

	"github.com/bitcoinblocks/backend/pkg/enum"
)

type RoundStatus string

var (
	RoundOpen     = enum.New(RoundStatus("open"))
	RoundClosed   = enum.New(RoundStatus("closed"))
	RoundFinished = enum.New(RoundStatus("finished"))
)

// Round is a time-boxed prediction period targeting one Bitcoin block.
// A finished round is immutable.
type Round struct {
	Base

	Sequence         int64 `gorm:"unique"`
	TargetHeight     int64
	StartTime        time.Time
	EndTime          time.Time
	PrizeDescription string
	Status           RoundStatus

	// Result fields, set when the round finishes.
	ActualTxCount  sql.NullInt64
	BlockHash      sql.NullString
	WinnerUserID   sql.NullString
	WinningGuessID sql.NullInt64
}
