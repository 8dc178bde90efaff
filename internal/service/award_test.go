package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrd-mh/pah-award-api/internal/models"
)

func TestComputeAwardTier(t *testing.T) {
	cases := []struct {
		total int
		want  models.AwardTier
	}{
		{200, models.AwardTierFirst},
		{180, models.AwardTierFirst},
		{179, models.AwardTierSecond},
		{160, models.AwardTierSecond},
		{159, models.AwardTierThird},
		{140, models.AwardTierThird},
		{139, models.AwardTierFourth},
		{120, models.AwardTierFourth},
		{119, models.AwardTierFifth},
		{100, models.AwardTierFifth},
		{99, models.AwardTierNone},
		{0, models.AwardTierNone},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ComputeAwardTier(tc.total), "total %d", tc.total)
	}
}
