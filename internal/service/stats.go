package service

import (
	"github.com/shopspring/decimal"

	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part/total as a percentage with two decimals.
func Percentage(part, total int64) string {
	if total <= 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		DivRound(decimal.NewFromInt(total), 2).
		StringFixed(2)
}

func groupStats(groups []repository.GroupCount, total int64) []models.GroupStat {
	out := make([]models.GroupStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.GroupStat{
			Key:        g.Key,
			Count:      g.Count,
			Percentage: Percentage(g.Count, total),
		})
	}
	return out
}
