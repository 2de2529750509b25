package assistant

import (
	"fmt"

	"github.com/startsmart/property/core/deal"
)

const marketTipPrompt = "Generate a short, practical, 2-sentence Dubai property investment market tip for 2026. " +
	"Mention areas like Business Bay, JVC, or Dubai Hills. Format as JSON with 'title' and 'content' keys."

// AnalyzePrompt builds the strategist prompt for a deal snapshot.
func AnalyzePrompt(s deal.Snapshot) string {
	return fmt.Sprintf("Lead Strategist, please analyze this Dubai property deal:\n"+
		"Purchase Price: %s %s,\n"+
		"Net Yield: %.2f%%,\n"+
		"ROI: %.1f%%,\n"+
		"Annual Service Charges: %s %s,\n"+
		"Total Invested: %s %s.\n"+
		"Is this a solid BTL investment for the 2026 cycle? "+
		"Highlight specific risks like liquidity or vacancy trends in that price bracket.",
		currency(s), deal.FormatNumber(s.Price),
		s.NetYield,
		s.ROI,
		currency(s), deal.FormatNumber(s.ServiceCharges),
		currency(s), deal.FormatNumber(s.TotalInvested),
	)
}

func currency(s deal.Snapshot) string {
	if s.Currency == "" {
		return deal.Currency
	}
	return s.Currency
}

// Suggestions are the quick prompts offered under the chat input.
func Suggestions() []string {
	return []string{
		"2026 Yields?",
		"BRRRR cycle",
		"Mortgage outlook",
		"JVC vs Marina ROI",
	}
}
