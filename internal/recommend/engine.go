// Package recommend ranks invoice templates against a business profile using
// hand-authored per-template weight tables.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"invoice-template-workers/internal/models"
)

const (
	// strongMatch is the weight a single attribute must exceed to count as a
	// reason and towards confidence.
	strongMatch = 0.7
	// confidenceSaturation is the number of strong matches that yields full confidence.
	confidenceSaturation = 10
	maxReasons           = 3
)

// Engine scores profiles against a fixed set of scoring tables. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	tables []ScoringTable
}

// NewEngine copies tables and clamps every weight into [0, 1].
func NewEngine(tables []ScoringTable) *Engine {
	copied := make([]ScoringTable, 0, len(tables))
	for _, t := range tables {
		weights := make(map[ScoreKey]float64, len(t.Weights))
		for k, w := range t.Weights {
			weights[k] = clamp01(w)
		}
		copied = append(copied, ScoringTable{TemplateID: t.TemplateID, Category: t.Category, Weights: weights})
	}
	return &Engine{tables: copied}
}

// TemplateIDs lists the templates the engine can score, in table order.
func (e *Engine) TemplateIDs() []string {
	ids := make([]string, len(e.tables))
	for i, t := range e.tables {
		ids[i] = t.TemplateID
	}
	return ids
}

// Recommend scores every table against profile and returns the results by
// descending score. Equal scores keep table order.
func (e *Engine) Recommend(profile models.UserProfile) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(e.tables))
	for _, t := range e.tables {
		out = append(out, score(t, profile))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func score(t ScoringTable, profile models.UserProfile) models.Recommendation {
	var total, maxPossible float64
	var matchCount int
	reasons := make([]string, 0, maxReasons)

	consider := func(attr models.ProfileAttribute, value string) {
		w := t.Weight(attr, value)
		total += w
		maxPossible++
		if w > strongMatch {
			matchCount++
			if len(reasons) < maxReasons {
				reasons = append(reasons, reasonFor(attr, value))
			}
		}
	}

	for _, attr := range models.SingularAttributes {
		consider(attr, profile.Value(attr))
	}
	for _, g := range profile.Goals {
		consider(models.AttrGoals, string(g))
	}

	var s float64
	if maxPossible > 0 {
		s = total / maxPossible
	}
	confidence := float64(matchCount) / confidenceSaturation
	if confidence > 1 {
		confidence = 1
	}

	return models.Recommendation{
		TemplateID: t.TemplateID,
		Score:      s,
		Confidence: confidence,
		Reasons:    reasons,
		Category:   t.Category,
		MatchType:  MatchTypeFor(s),
	}
}

// MatchTypeFor maps a score onto its tier: perfect >= 0.9, excellent >= 0.8,
// good >= 0.7, decent otherwise.
func MatchTypeFor(score float64) models.MatchType {
	switch {
	case score >= 0.9:
		return models.MatchPerfect
	case score >= 0.8:
		return models.MatchExcellent
	case score >= 0.7:
		return models.MatchGood
	default:
		return models.MatchDecent
	}
}

var businessTypeLabels = map[string]string{
	"freelancer":     "freelancers",
	"small-business": "small businesses",
	"agency":         "agencies",
	"consultant":     "consultants",
	"ecommerce":      "online stores",
	"nonprofit":      "nonprofits",
}

var goalPhrases = map[string]string{
	"look-professional": "look professional",
	"stand-out":         "stand out from competitors",
	"save-time":         "save time on invoicing",
	"get-paid-faster":   "get paid faster",
	"build-brand":       "build your brand",
	"stay-organized":    "stay organized",
}

var reasonFormats = map[models.ProfileAttribute]string{
	models.AttrBusinessType:     "Perfect for %s",
	models.AttrIndustry:         "Popular in the %s industry",
	models.AttrCompanySize:      "Fits %s companies",
	models.AttrDesignPreference: "Matches your %s design style",
	models.AttrColorPreference:  "Suits a %s color palette",
	models.AttrTargetAudience:   "Resonates with %s",
	models.AttrInvoiceFrequency: "Works well for %s invoicing",
	models.AttrBudget:           "Good fit for a %s budget",
	models.AttrExperience:       "Comfortable at the %s level",
	models.AttrGoals:            "Helps you %s",
}

func reasonFor(attr models.ProfileAttribute, value string) string {
	label := strings.ReplaceAll(value, "-", " ")
	switch attr {
	case models.AttrBusinessType:
		if l, ok := businessTypeLabels[value]; ok {
			label = l
		}
	case models.AttrGoals:
		if l, ok := goalPhrases[value]; ok {
			label = l
		}
	}
	return fmt.Sprintf(reasonFormats[attr], label)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
