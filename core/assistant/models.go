package assistant

import (
	"context"
	"time"
)

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	WelcomeID = "welcome"

	// MaxSources is the number of grounding sources kept on a reply.
	MaxSources         = 4
	defaultSourceTitle = "Market Source"
)

// canned replies
const (
	welcomeText = "Hello! I'm your StartSmart Lead Strategist. I'm connected to the Dubai 2026 market pulse. " +
		"I can help you deep-dive into area ROIs, calculate the true cost of service charges, or plan your BRRRR cycle. " +
		"What can I analyze for you today?"
	rateLimitedText = "Please wait a few seconds before sending another message."
	emptyReplyText  = "I apologize, my market link is currently down. Please try again in a moment."
	connectionText  = "I'm having trouble retrieving 2026 data. Please check your connection."
	quotaText       = "Strategic Hub Busy: I've exceeded my current request quota for the 2026 market pulse. " +
		"Please wait about 30-60 seconds before sending your next analysis request. Free tier limits are currently active."
)

// SystemInstruction is the persona of the strategist.
const SystemInstruction = "You are the Lead Investment Strategist for StartSmart Property, a seasoned expert in the Dubai 2026 property market. " +
	"All responses must be highly professional, conservative, and math-driven. Focus on 'Net Yield' over 'Gross Yield'. " +
	"Mention Dubai-specific fees (4% DLD, 2% Agency) where relevant. Use bullet points for readability. " +
	"If a user asks about an area, search for current 2026 data. Explain the 'Why' behind every strategic advice. " +
	"Use spaced out, readable tables if needed. Ensure advice is actionable."

type Role string

type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	Blocks    []Block   `json:"blocks"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Tip is the dashboard market tip.
type Tip struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (t Tip) valid() bool { return t.Title != "" && t.Content != "" }

// FallbackTip is served when no tip can be generated.
var FallbackTip = Tip{
	Title: "Focus on JVC Net Yields",
	Content: "Jumeirah Village Circle continues to lead for buy-to-let investors with net yields often exceeding 7%. " +
		"Ensure you account for the higher service charges in premium towers.",
}

type (
	// Request is one prompt to a text generation model.
	Request struct {
		Prompt string
		System string
		Search bool // ground the answer with web search
		JSON   bool // ask for an application/json answer
	}

	Response struct {
		Text    string
		Sources []Source
	}

	Generator interface {
		Generate(ctx context.Context, req Request) (Response, error)
	}

	// Cache stores market tips. Get reports false on a miss.
	Cache interface {
		Get(ctx context.Context, key string) (string, bool)
		Set(ctx context.Context, key, value string, ttl time.Duration) error
	}
)

// NewSendMessage is the body of a chat message.
type NewSendMessage struct {
	Content string `json:"content" validate:"required,notblank,max=4000"`
}

// AnalyzeRequest carries a deal snapshot, either encoded like the analyze query parameter or as raw JSON.
type AnalyzeRequest struct {
	Analyze string `json:"analyze" query:"analyze" validate:"required"`
}

// AnalyzeResponse is the prompt prefilled from a deal snapshot.
type AnalyzeResponse struct {
	Prompt string `json:"prompt"`
}
