package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/startsmart/property/core/deal"
)

func TestAnalyzePrompt(t *testing.T) {
	in := deal.DefaultInputs()
	res, err := deal.Evaluate(in)
	assert.NoError(t, err)
	snap, err := deal.NewSnapshot(in, res)
	assert.NoError(t, err)

	prompt := AnalyzePrompt(snap)
	assert.Contains(t, prompt, "Lead Strategist, please analyze this Dubai property deal:")
	assert.Contains(t, prompt, "Purchase Price: AED 1,500,000,")
	assert.Contains(t, prompt, "Net Yield: 8.00%,")
	assert.Contains(t, prompt, "ROI: 8.7%,")
	assert.Contains(t, prompt, "Annual Service Charges: AED 18,000,")
	assert.Contains(t, prompt, "Total Invested: AED 515,000.")
	assert.Contains(t, prompt, "Is this a solid BTL investment for the 2026 cycle?")
}

func TestSuggestions(t *testing.T) {
	assert.Equal(t, []string{"2026 Yields?", "BRRRR cycle", "Mortgage outlook", "JVC vs Marina ROI"}, Suggestions())
}
