package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LoyaltyTier is a customer's loyalty level, derived from cumulative spend.
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

// Spend thresholds in cents. A tier applies from its threshold upwards.
const (
	SilverThresholdCents   int64 = 100_000 * 100
	GoldThresholdCents     int64 = 500_000 * 100
	PlatinumThresholdCents int64 = 1_000_000 * 100
)

// TierForSpend returns the tier earned by a cumulative spend in cents.
func TierForSpend(totalSpentCents int64) LoyaltyTier {
	switch {
	case totalSpentCents >= PlatinumThresholdCents:
		return TierPlatinum
	case totalSpentCents >= GoldThresholdCents:
		return TierGold
	case totalSpentCents >= SilverThresholdCents:
		return TierSilver
	default:
		return TierBronze
	}
}

func (t LoyaltyTier) String() string {
	return string(t)
}

func (t LoyaltyTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *LoyaltyTier) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = LoyaltyTier(str)
	return nil
}

func (t LoyaltyTier) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *LoyaltyTier) Scan(value interface{}) error {
	if value == nil {
		*t = TierBronze
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = LoyaltyTier(v)
	case []byte:
		*t = LoyaltyTier(string(v))
	}
	return nil
}
