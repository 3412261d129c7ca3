package constants

// Business status
const (
	BusinessStatusActive   = 1
	BusinessStatusInactive = 0
)

// Media asset status
const (
	MediaStatusDraft     = 0
	MediaStatusPublished = 1
	MediaStatusArchived  = 2
)

// Transaction status
const (
	TransactionStatusPending   = 0
	TransactionStatusCompleted = 1
	TransactionStatusRefunded  = 2
	TransactionStatusFailed    = 3
)

// Payout status
const (
	PayoutStatusPending   = 0
	PayoutStatusConfirmed = 1
	PayoutStatusRejected  = 2
)

// Pool type
const (
	PoolTypeCompetitive   = "competitive"
	PoolTypeComplementary = "complementary"
)

// Revenue split model
const (
	SplitEqual        = "equal"
	SplitProportional = "proportional"
	SplitCustom       = "custom"
)
