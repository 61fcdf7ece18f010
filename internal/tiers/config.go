package tiers

import (
	"callassist-server/internal/store"
	"strings"
)

// TierName represents a plan tier
type TierName string

const (
	TierFree       TierName = store.PlanTierFree
	TierBasic      TierName = store.PlanTierBasic
	TierPremium    TierName = store.PlanTierPremium
	TierEnterprise TierName = store.PlanTierEnterprise
)

// Unlimited marks a limit that never denies.
const Unlimited = store.UnlimitedQuota

// Limits are the monthly quotas and feature flags granted by a tier
type Limits struct {
	MaxCalls               int  `json:"max_calls"`
	MaxMinutes             int  `json:"max_minutes"`
	AISupport              bool `json:"ai_support"`
	VoicemailTranscription bool `json:"voicemail_transcription"`
	Analytics              bool `json:"analytics"`
}

// TierLimits maps each tier to the limits written onto its subscription row
var TierLimits = map[TierName]Limits{
	TierFree:       {MaxCalls: 10, MaxMinutes: 30, AISupport: true, VoicemailTranscription: true},
	TierBasic:      {MaxCalls: 100, MaxMinutes: 300, AISupport: true, VoicemailTranscription: true},
	TierPremium:    {MaxCalls: 500, MaxMinutes: 1500, AISupport: true, VoicemailTranscription: true, Analytics: true},
	TierEnterprise: {MaxCalls: Unlimited, MaxMinutes: Unlimited, AISupport: true, VoicemailTranscription: true, Analytics: true},
}

// PriceLookupKeyToTier maps Stripe price lookup keys to tier names
var PriceLookupKeyToTier = map[string]TierName{
	"ca_basic_monthly":      TierBasic,
	"ca_basic_annual":       TierBasic,
	"ca_premium_monthly":    TierPremium,
	"ca_premium_annual":     TierPremium,
	"ca_enterprise_monthly": TierEnterprise,
	"ca_enterprise_annual":  TierEnterprise,
}

// TierDisplayNames maps tier names to display strings
var TierDisplayNames = map[TierName]string{
	TierFree:       "Free",
	TierBasic:      "Basic",
	TierPremium:    "Premium",
	TierEnterprise: "Enterprise",
}

// ParseTier returns the tier for a stored or submitted tier name
func ParseTier(name string) (TierName, bool) {
	tier := TierName(strings.ToLower(strings.TrimSpace(name)))
	_, ok := TierLimits[tier]
	return tier, ok
}

// GetTierForPriceLookupKey returns the tier name for a price lookup key
func GetTierForPriceLookupKey(lookupKey string) TierName {
	if tier, ok := PriceLookupKeyToTier[lookupKey]; ok {
		return tier
	}
	if tier, ok := PriceLookupKeyToTier[strings.ToLower(lookupKey)]; ok {
		return tier
	}
	return TierFree
}

// LimitsFor returns the limits of a tier, falling back to the free tier
func LimitsFor(tier TierName) Limits {
	if limits, ok := TierLimits[tier]; ok {
		return limits
	}
	return TierLimits[TierFree]
}

// GetTierDisplayName returns the display name for a tier
func GetTierDisplayName(tier TierName) string {
	if name, ok := TierDisplayNames[tier]; ok {
		return name
	}
	return "Free"
}
