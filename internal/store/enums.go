package store

// Plan tiers
const (
	PlanTierFree       = "free"
	PlanTierBasic      = "basic"
	PlanTierPremium    = "premium"
	PlanTierEnterprise = "enterprise"
)

// Subscription statuses
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Conversation statuses. completed and failed are terminal.
const (
	ConversationStatusProcessing = "processing"
	ConversationStatusCompleted  = "completed"
	ConversationStatusFailed     = "failed"
)

// Response length tiers stored in account preferences
const (
	ResponseLengthShort  = "short"
	ResponseLengthMedium = "medium"
	ResponseLengthLong   = "long"
)

// UnlimitedQuota is the plan limit value that always passes a quota check.
const UnlimitedQuota = -1
