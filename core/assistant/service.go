package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/deal"
)

const (
	marketTipKey = "assistant:market-tip"
	maxHistory   = 200
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrRateLimited   = errors.New(rateLimitedText)
	ErrQuotaExceeded = errors.New(quotaText)
	ErrOffline       = errors.New("assistant is offline")
)

type (
	Service interface {
		// History returns the conversation of userID, starting with the welcome message.
		History(ctx context.Context, userID string) []Message
		// Send forwards text to the strategist and returns its reply.
		Send(ctx context.Context, userID, text string) (Message, error)
		// Analyze decodes a deal snapshot and builds the prompt that prefills the chat input.
		Analyze(ctx context.Context, raw string) (AnalyzeResponse, error)
		MarketTip(ctx context.Context) Tip
		Close()
	}

	service struct {
		gen     Generator
		cache   Cache
		logger  core.Logger
		gate    *rateGate
		tipTTL  time.Duration
		timeout time.Duration

		mu      sync.Mutex
		history map[string][]Message
	}
)

var _ Service = (*service)(nil)

func NewService(gen Generator, cache Cache, logger core.Logger, conf *core.Config) Service {
	return &service{
		gen:     gen,
		cache:   cache,
		logger:  logger,
		gate:    newRateGate(conf.Assistant.RateWindow),
		tipTTL:  conf.Assistant.MarketTipTTL,
		timeout: conf.Assistant.RequestTimeout,
		history: make(map[string][]Message),
	}
}

func welcomeMessage() Message {
	return newMessage(RoleAssistant, welcomeText, nil, WelcomeID)
}

func newMessage(role Role, content string, sources []Source, id ...string) Message {
	msg := Message{
		Role:      role,
		Content:   content,
		Sources:   sources,
		Blocks:    Format(content),
		CreatedAt: nowFunc().UTC(),
	}
	if len(id) > 0 {
		msg.ID = id[0]
	} else {
		msg.ID = uuid.New().String()
	}
	return msg
}

func (svc *service) History(_ context.Context, userID string) []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	msgs := make([]Message, 0, len(svc.history[userID])+1)
	msgs = append(msgs, welcomeMessage())
	return append(msgs, svc.history[userID]...)
}

func (svc *service) record(userID string, msgs ...Message) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	h := append(svc.history[userID], msgs...)
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	svc.history[userID] = h
}

func (svc *service) Send(ctx context.Context, userID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, core.NewValidationError(nil, core.FieldError{Field: "content", Error: "this field cannot be blank"})
	}
	if !svc.gate.allow(userID, nowFunc()) {
		return Message{}, ErrRateLimited
	}

	userMsg := newMessage(RoleUser, text, nil)

	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	resp, err := svc.gen.Generate(ctx, Request{Prompt: text, System: SystemInstruction, Search: true})
	if err != nil {
		if isQuotaErr(err) {
			svc.record(userID, userMsg, newMessage(RoleAssistant, quotaText, nil))
			return Message{}, ErrQuotaExceeded
		}
		svc.logger.Error(fmt.Sprintf("assistant: generating reply: %v", err), err)
		reply := newMessage(RoleAssistant, connectionText, nil)
		svc.record(userID, userMsg, reply)
		return reply, nil
	}

	content := resp.Text
	if strings.TrimSpace(content) == "" {
		content = emptyReplyText
	}
	reply := newMessage(RoleAssistant, content, cleanSources(resp.Sources))
	svc.record(userID, userMsg, reply)
	return reply, nil
}

func (svc *service) Analyze(_ context.Context, raw string) (AnalyzeResponse, error) {
	snap, err := deal.DecodeSnapshot(raw)
	if err != nil {
		return AnalyzeResponse{}, err
	}
	return AnalyzeResponse{Prompt: AnalyzePrompt(snap)}, nil
}

func (svc *service) MarketTip(ctx context.Context) Tip {
	if cached, ok := svc.cache.Get(ctx, marketTipKey); ok {
		var tip Tip
		if err := json.Unmarshal([]byte(cached), &tip); err == nil && tip.valid() {
			return tip
		}
	}

	tctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	resp, err := svc.gen.Generate(tctx, Request{Prompt: marketTipPrompt, JSON: true})
	if err != nil {
		if errors.Cause(err) != ErrOffline {
			svc.logger.Warn(fmt.Sprintf("assistant: generating market tip: %v", err), err)
		}
		return FallbackTip
	}

	var tip Tip
	if err := json.Unmarshal([]byte(resp.Text), &tip); err != nil || !tip.valid() {
		svc.logger.Warn("assistant: invalid market tip response", map[string]interface{}{"text": resp.Text})
		return FallbackTip
	}

	if data, err := json.Marshal(tip); err == nil {
		if err := svc.cache.Set(ctx, marketTipKey, string(data), svc.tipTTL); err != nil {
			svc.logger.Warn(fmt.Sprintf("assistant: caching market tip: %v", err), err)
		}
	}
	return tip
}

func (svc *service) Close() {
	svc.gate.stop()
}

func (svc *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if svc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, svc.timeout)
}

// cleanSources drops sources without URI, titles missing ones and keeps at most MaxSources.
func cleanSources(sources []Source) []Source {
	var res []Source
	for _, s := range sources {
		if s.URI == "" {
			continue
		}
		if s.Title == "" {
			s.Title = defaultSourceTitle
		}
		res = append(res, s)
		if len(res) == MaxSources {
			break
		}
	}
	return res
}

func isQuotaErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota")
}

// offlineGenerator is used when no model is configured.
type offlineGenerator struct{}

// NewOfflineGenerator returns a Generator failing every request with ErrOffline.
func NewOfflineGenerator() Generator { return offlineGenerator{} }

func (offlineGenerator) Generate(context.Context, Request) (Response, error) {
	return Response{}, ErrOffline
}
