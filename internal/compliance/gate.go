// Package compliance decides whether an inbound message is safe to
// handle automatically and records the audit trail when it is not.
package compliance

import (
	"regexp"
	"strings"
)

// RiskCategory labels the kind of risk detected in a message.
type RiskCategory string

const (
	RiskIllegalActivity      RiskCategory = "illegal_activity"
	RiskPrivacyViolation     RiskCategory = "privacy_violation"
	RiskFinancialFraud       RiskCategory = "financial_fraud"
	RiskDiscrimination       RiskCategory = "discrimination"
	RiskHarassment           RiskCategory = "harassment"
	RiskInappropriateContent RiskCategory = "inappropriate_content"
	RiskOther                RiskCategory = "other"
)

// CheckResult is the outcome of scanning one message.
type CheckResult struct {
	Compliant      bool
	Category       RiskCategory
	MatchedPhrases []string
}

type categoryPatterns struct {
	category RiskCategory
	patterns []*regexp.Regexp
}

// Gate scans inbound text against per-category risk patterns.
// Categories are checked in a fixed severity order; the first category
// with any match wins and all of its matched phrases are reported.
type Gate struct {
	categories []categoryPatterns
}

// NewGate returns a gate with the default risk patterns.
func NewGate() *Gate {
	return NewGateWithPatterns(defaultRiskPatterns())
}

// NewGateWithPatterns builds a gate from a custom category ordering.
// Pattern strings are compiled case-insensitively; invalid patterns panic,
// matching how misconfigured regexes are surfaced at startup elsewhere.
func NewGateWithPatterns(ordered []CategoryConfig) *Gate {
	g := &Gate{}
	for _, cc := range ordered {
		cp := categoryPatterns{category: cc.Category}
		for _, p := range cc.Patterns {
			cp.patterns = append(cp.patterns, regexp.MustCompile(`(?i)`+p))
		}
		g.categories = append(g.categories, cp)
	}
	return g
}

// CategoryConfig pairs a risk category with its trigger patterns.
type CategoryConfig struct {
	Category RiskCategory
	Patterns []string
}

// Check scans text for risk. A compliant result carries no category and
// no phrases. The scan is pure: no side effects, no error path.
func (g *Gate) Check(text string) CheckResult {
	normalized := strings.ToLower(text)

	for _, cc := range g.categories {
		var matched []string
		for _, p := range cc.patterns {
			for _, m := range p.FindAllString(normalized, -1) {
				matched = append(matched, m)
			}
		}
		if len(matched) > 0 {
			return CheckResult{
				Compliant:      false,
				Category:       cc.category,
				MatchedPhrases: matched,
			}
		}
	}

	return CheckResult{Compliant: true}
}

func defaultRiskPatterns() []CategoryConfig {
	return []CategoryConfig{
		{
			Category: RiskIllegalActivity,
			Patterns: []string{
				`\b(illegal|illicit|criminal)\s+(activity|activities|operation|deal)`,
				`\b(drug|weapon|human)\s+(trafficking|smuggling|trade)`,
				`\blaunder(ing)?\s+(money|cash|funds)`,
				`\b(evad(e|ing)|avoid(ing)?)\s+(tax(es)?|sanctions|regulations)`,
			},
		},
		{
			Category: RiskPrivacyViolation,
			Patterns: []string{
				`\b(steal|hack|obtain|extract)\s+(personal|private|sensitive)\s+(data|information)`,
				`\b(bypass|circumvent)\s+(security|authentication|verification)`,
				`\baccess\s+(unauthorized|restricted)\s+(data|systems|accounts)`,
				`\b(spy|monitor|track)\s+without\s+(consent|permission|knowledge)`,
			},
		},
		{
			Category: RiskFinancialFraud,
			Patterns: []string{
				`\b(pyramid|ponzi)\s+scheme`,
				`\bfalse\s+(investment|return|profit)`,
				`\b(fake|phishing|scam)\s+(website|payment|invoice)`,
				`\bidentity\s+theft`,
				`\bcounterfeit\s+(money|currency|goods)`,
				`\bfraudul(ent|ently)`,
			},
		},
		{
			Category: RiskDiscrimination,
			Patterns: []string{
				`\b(discriminate|discriminating|discrimination)\s+against`,
				`\b(racial|ethnic|religious|gender)\s+(discrimination|bias|prejudice)`,
				`\b(target|exclude)\s+based\s+on\s+(race|gender|religion|age|disability)`,
			},
		},
		{
			Category: RiskHarassment,
			Patterns: []string{
				`\b(harass|threaten|intimidate|bully)`,
				`\b(sexual|verbal|physical)\s+harassment`,
				`\bhostile\s+(environment|workplace|behavior)`,
			},
		},
		{
			Category: RiskInappropriateContent,
			Patterns: []string{
				`\b(explicit|obscene|pornographic)\s+(content|material|imagery)`,
				`\b(share|distribute|sell)\s+(adult|explicit)\s+content`,
				`\b(sexualized|violent)\s+content`,
			},
		},
		{
			Category: RiskOther,
			Patterns: []string{
				`\b(bribe|corruption|kickback)`,
				`\binsider\s+trading`,
				`\b(corporate|business)\s+espionage`,
			},
		},
	}
}
