package tests

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/property/core/assistant"
	"github.com/startsmart/property/core/deal"
	"github.com/startsmart/property/testutil"
)

func Test_assistantApi_messages(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Omar", "omar@startsmart.ae", "", true)
	busy := testutil.CreateUser(t, usrRepo, "Busy", "busy@startsmart.ae", "", true)
	offline := testutil.CreateUser(t, usrRepo, "Offline", "offline@startsmart.ae", "", true)
	token := getToken(t, usr)

	serve(t, httpTest{path: "/v1/assistant/messages", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)})

	rec := serve(t, httpTest{path: "/v1/assistant/messages", token: token})
	var history []assistant.Message
	unmarchallObj(t, rec.Body.Bytes(), &history)
	require.Len(t, history, 1)
	assert.Equal(t, assistant.WelcomeID, history[0].ID)

	serve(t, httpTest{
		method: http.MethodPost, path: "/v1/assistant/messages", token: token, body: []byte(`{"content": "   "}`),
		wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"content": "this field cannot be blank"}),
	})

	gen.set(assistant.Response{
		Text:    "**JVC** leads on net yield.",
		Sources: []assistant.Source{{URI: "https://dld.gov.ae/report"}, {Title: "no link"}},
	}, nil)
	rec = serve(t, httpTest{method: http.MethodPost, path: "/v1/assistant/messages", token: token, body: []byte(`{"content": "2026 Yields?"}`)})
	var reply assistant.Message
	unmarchallObj(t, rec.Body.Bytes(), &reply)
	assert.Equal(t, assistant.RoleAssistant, reply.Role)
	assert.Equal(t, "**JVC** leads on net yield.", reply.Content)
	assert.Equal(t, []assistant.Source{{URI: "https://dld.gov.ae/report", Title: "Market Source"}}, reply.Sources)
	assert.NotEmpty(t, reply.Blocks)

	last := gen.requests[len(gen.requests)-1]
	assert.Equal(t, "2026 Yields?", last.Prompt)
	assert.True(t, last.Search)
	assert.Equal(t, assistant.SystemInstruction, last.System)

	// one message per window
	serve(t, httpTest{
		method: http.MethodPost, path: "/v1/assistant/messages", token: token, body: []byte(`{"content": "BRRRR cycle"}`),
		wantCode: http.StatusTooManyRequests, wantData: marchallObj(t, httpErr{Error: assistant.ErrRateLimited.Error()}),
	})

	rec = serve(t, httpTest{path: "/v1/assistant/messages", token: token})
	history = nil
	unmarchallObj(t, rec.Body.Bytes(), &history)
	require.Len(t, history, 3)
	assert.Equal(t, assistant.RoleUser, history[1].Role)
	assert.Equal(t, reply.ID, history[2].ID)

	gen.set(assistant.Response{}, errors.New("googleapi: Error 429: Resource has been exhausted (e.g. check quota)."))
	serve(t, httpTest{
		method: http.MethodPost, path: "/v1/assistant/messages", token: getToken(t, busy), body: []byte(`{"content": "Mortgage outlook"}`),
		wantCode: http.StatusServiceUnavailable, wantData: marchallObj(t, httpErr{Error: assistant.ErrQuotaExceeded.Error()}),
	})

	gen.set(assistant.Response{}, errors.New("dial tcp: i/o timeout"))
	rec = serve(t, httpTest{method: http.MethodPost, path: "/v1/assistant/messages", token: getToken(t, offline), body: []byte(`{"content": "Mortgage outlook"}`)})
	reply = assistant.Message{}
	unmarchallObj(t, rec.Body.Bytes(), &reply)
	assert.Equal(t, assistant.RoleAssistant, reply.Role)
	assert.NotEmpty(t, reply.Content)
}

func Test_assistantApi_analyze(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Omar", "omar@startsmart.ae", "", true)
	token := getToken(t, usr)

	in := deal.DefaultInputs()
	res, err := deal.Evaluate(in)
	require.NoError(t, err)
	snap, err := deal.NewSnapshot(in, res)
	require.NoError(t, err)
	encoded, err := snap.Encode()
	require.NoError(t, err)

	tests := []httpTest{
		{name: "encoded snapshot", body: marchallObj(t, assistant.AnalyzeRequest{Analyze: encoded})},
		{name: "json snapshot", body: marchallObj(t, map[string]string{"analyze": string(marchallObj(t, snap))})},
		{
			name: "analyze required", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"analyze": "this field is required"}),
		},
		{name: "invalid snapshot", body: marchallObj(t, assistant.AnalyzeRequest{Analyze: "%7Bnope"}), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/assistant/analyze"
			tt.token = token
			rec := serve(t, tt)
			if tt.wantCode != 0 {
				return
			}
			var resp assistant.AnalyzeResponse
			unmarchallObj(t, rec.Body.Bytes(), &resp)
			assert.Equal(t, assistant.AnalyzePrompt(snap), resp.Prompt)
			assert.Contains(t, resp.Prompt, "Purchase Price: AED 1,500,000")
			assert.Contains(t, resp.Prompt, "Net Yield: 8.00%")
		})
	}
}

func Test_assistantApi_suggestionsAndMarketTip(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Omar", "omar@startsmart.ae", "", true)
	token := getToken(t, usr)

	serve(t, httpTest{path: "/v1/assistant/suggestions", token: token, wantData: marchallObj(t, assistant.Suggestions())})

	gen.set(assistant.Response{Text: "not json"}, nil)
	serve(t, httpTest{path: "/v1/assistant/market-tip", token: token, wantData: marchallObj(t, assistant.FallbackTip)})

	tip := assistant.Tip{Title: "Dubai Hills Off-Plan", Content: "Handover discounts are widening in 2026."}
	gen.set(assistant.Response{Text: string(marchallObj(t, tip))}, nil)
	serve(t, httpTest{path: "/v1/assistant/market-tip", token: token, wantData: marchallObj(t, tip)})

	// served from the cache while the model is down
	gen.set(assistant.Response{}, errors.New("unavailable"))
	serve(t, httpTest{path: "/v1/assistant/market-tip", token: token, wantData: marchallObj(t, tip)})
	assert.True(t, gen.requests[len(gen.requests)-1].JSON)
}
