package genaisvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/startsmart/property/core/assistant"
)

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(assistant.Request{Prompt: "hi", System: "be nice", Search: true})
	if assert.NotNil(t, cfg.SystemInstruction) {
		assert.Equal(t, "be nice", cfg.SystemInstruction.Parts[0].Text)
	}
	if assert.Len(t, cfg.Tools, 1) {
		assert.NotNil(t, cfg.Tools[0].GoogleSearch)
	}
	assert.Empty(t, cfg.ResponseMIMEType)

	cfg = buildConfig(assistant.Request{Prompt: "tip", JSON: true})
	assert.Nil(t, cfg.SystemInstruction)
	assert.Empty(t, cfg.Tools)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
}

func TestGroundingSources(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want []assistant.Source
	}{
		{name: "nil", resp: nil, want: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: nil},
		{
			name: "no metadata",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			want: nil,
		},
		{
			name: "web chunks",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://dld.gov.ae", Title: "DLD"}},
					{},
					{Web: &genai.GroundingChunkWeb{URI: "", Title: "empty"}},
				}},
			}}},
			want: []assistant.Source{{URI: "https://dld.gov.ae", Title: "DLD"}, {URI: "", Title: "empty"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groundingSources(tt.resp))
		})
	}
}
