// Package genaisvc implements assistant.Generator on the Gemini API.
package genaisvc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/assistant"
)

const jsonMIMEType = "application/json"

type Generator struct {
	client *genai.Client
	model  string
}

var _ assistant.Generator = (*Generator)(nil)

func NewGenerator(ctx context.Context, conf *core.Config) (*Generator, error) {
	if conf.Assistant.APIKey == "" {
		return nil, errors.New("genai API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.Assistant.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}
	return &Generator{client: client, model: conf.Assistant.Model}, nil
}

func (g *Generator) Generate(ctx context.Context, req assistant.Request) (assistant.Response, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), buildConfig(req))
	if err != nil {
		return assistant.Response{}, errors.Wrap(err, "generating content")
	}
	return assistant.Response{Text: resp.Text(), Sources: groundingSources(resp)}, nil
}

func buildConfig(req assistant.Request) *genai.GenerateContentConfig {
	cfg := new(genai.GenerateContentConfig)
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.JSON {
		cfg.ResponseMIMEType = jsonMIMEType
	}
	return cfg
}

// groundingSources lists the web chunks of the first candidate, as is.
func groundingSources(resp *genai.GenerateContentResponse) []assistant.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []assistant.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, assistant.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
