package catalog

import (
	"math"

	"github.com/mineforge/jobs/internal/domain"
)

// Scale returns the quantity multiplier for a rule. Linear scaling pays per
// unit; diminishing scaling pays quantity^exponent, so bulk actions from
// stacked mobs still reward but sub-linearly.
func Scale(rule *domain.RewardRule, quantity int) float64 {
	if quantity < 1 {
		quantity = 1
	}

	switch rule.Scaling {
	case domain.ScalingDiminishing:
		return math.Pow(float64(quantity), rule.ScalingExponent)
	default:
		return float64(quantity)
	}
}
