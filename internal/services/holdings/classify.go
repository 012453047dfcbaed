package holdings

import (
	"fmt"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/models"
)

// rung is one step of the recommendation ladder.
type rung struct {
	minUpside float64
	tier      models.Recommendation
}

// Classifier maps upside % to a recommendation tier through an ordered
// threshold ladder, evaluated top-down with first match winning. The ladder
// is injected configuration, not hard-coded branches.
type Classifier struct {
	rungs    []rung
	fallback models.Recommendation
}

// NewClassifier builds a classifier from configured thresholds. Thresholds
// must be strictly decreasing in both upside and bullishness so that a
// higher upside can never classify less bullishly.
func NewClassifier(thresholds []common.TierThreshold) (*Classifier, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("at least one threshold is required")
	}

	tierRank := make(map[models.Recommendation]int, len(models.Recommendations))
	for i, r := range models.Recommendations {
		tierRank[r] = i
	}

	rungs := make([]rung, 0, len(thresholds))
	prevRank := -1
	for i, th := range thresholds {
		tier := models.ParseRecommendation(th.Tier)
		if tier == "" {
			return nil, fmt.Errorf("unknown recommendation tier %q", th.Tier)
		}
		if i > 0 {
			if th.MinUpside >= rungs[i-1].minUpside {
				return nil, fmt.Errorf("thresholds must be strictly decreasing: %.2f >= %.2f", th.MinUpside, rungs[i-1].minUpside)
			}
			if tierRank[tier] <= prevRank {
				return nil, fmt.Errorf("tier %q breaks bullishness ordering", th.Tier)
			}
		}
		prevRank = tierRank[tier]
		rungs = append(rungs, rung{minUpside: th.MinUpside, tier: tier})
	}

	// Below the lowest rung, fall through to the next less bullish tier.
	fallback := models.Recommendations[len(models.Recommendations)-1]
	if prevRank+1 < len(models.Recommendations) {
		fallback = models.Recommendations[prevRank+1]
	}

	return &Classifier{rungs: rungs, fallback: fallback}, nil
}

// Classify returns the tier for an upside percentage.
func (c *Classifier) Classify(upsidePct float64) models.Recommendation {
	for _, r := range c.rungs {
		if upsidePct >= r.minUpside {
			return r.tier
		}
	}
	return c.fallback
}
