package service

import "github.com/wrd-mh/pah-award-api/internal/models"

// tierBands maps minimum grand totals to award tiers, highest first.
var tierBands = []struct {
	Min  int
	Tier models.AwardTier
}{
	{180, models.AwardTierFirst},
	{160, models.AwardTierSecond},
	{140, models.AwardTierThird},
	{120, models.AwardTierFourth},
	{100, models.AwardTierFifth},
}

// ComputeAwardTier resolves the award tier for a grand total out of 200.
// Totals below the lowest band earn no award.
func ComputeAwardTier(grandTotal int) models.AwardTier {
	for _, band := range tierBands {
		if grandTotal >= band.Min {
			return band.Tier
		}
	}
	return models.AwardTierNone
}
