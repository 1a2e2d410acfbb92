package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/chalkline/assistant-api/internal/analytics"
	"github.com/chalkline/assistant-api/internal/client"
	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/llm/processing"
	"github.com/chalkline/assistant-api/internal/prompts"
	"github.com/chalkline/assistant-api/internal/store"
	"github.com/chalkline/assistant-api/internal/store/model"
	"github.com/chalkline/assistant-api/pkg/api"
	"go.uber.org/zap"
)

const (
	defaultMaxTokens   = 2048
	defaultTemperature = 0.7
)

// Service turns a mode request into a structured, sectioned answer.
// ProcessRequest returns an error only for caller contract violations
// (an unknown mode); every environmental failure degrades to a usable
// response instead.
type Service interface {
	ProcessRequest(ctx context.Context, req *api.AssistantRequest) (*api.AssistantResponse, error)
	Chat(ctx context.Context, req *api.ChatRequest) string
	Modes() []api.ModeInfo
}

// generator is the capability surface the orchestrator needs from the
// provider client.
type generator interface {
	Generate(ctx context.Context, req *api.GenerationRequest) string
	Chat(ctx context.Context, req *api.ChatRequest) string
	DemoMode() bool
	Provider() string
	Model() string
}

type service struct {
	logger   *zap.Logger
	settings store.SettingsReader
	env      config.ProviderEnv
	ingestor analytics.Ingestor

	// newClient is swapped out by tests.
	newClient func(ctx context.Context, tenantID string) generator
}

func NewService(logger *zap.Logger, settings store.SettingsReader, env config.ProviderEnv, ingestor analytics.Ingestor) Service {
	s := &service{
		logger:   logger,
		settings: settings,
		env:      env,
		ingestor: ingestor,
	}
	s.newClient = s.buildClient
	return s
}

// buildClient resolves the settings tiers fresh for this request; a
// failing settings read just drops that tier rather than the request.
func (s *service) buildClient(ctx context.Context, tenantID string) generator {
	var tenant *model.TenantSettings
	var system *model.SystemSettings

	if s.settings != nil {
		if tenantID != "" {
			t, err := s.settings.GetTenantSettings(ctx, tenantID)
			if err == nil {
				tenant = t
			} else if err != store.ErrNotFound {
				s.logger.Warn("tenant settings read failed", zap.String("tenant", tenantID), zap.Error(err))
			}
		}
		sys, err := s.settings.GetSystemSettings(ctx)
		if err == nil {
			system = sys
		} else if err != store.ErrNotFound {
			s.logger.Warn("system settings read failed", zap.Error(err))
		}
	}

	return client.New(client.Options{
		Tenant: tenant,
		System: system,
		Env:    s.env,
		Logger: s.logger,
	})
}

func (s *service) ProcessRequest(ctx context.Context, req *api.AssistantRequest) (*api.AssistantResponse, error) {
	if _, ok := fieldTables[req.Mode]; !ok {
		// The one condition allowed to surface as an error: the router
		// validated the mode, so an unknown one is a programming error.
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}

	prompt := s.buildPrompt(req)
	cl := s.newClient(ctx, req.TenantID)

	start := time.Now()
	raw := cl.Generate(ctx, &api.GenerationRequest{
		Prompt:      prompt,
		Language:    req.Language,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		MediaRef:    req.MediaRef,
	})
	latency := time.Since(start)

	structured := processing.Extract(raw)
	if len(structured) == 0 {
		// Worst case the teacher still sees the unstructured text.
		structured = map[string]any{rawResponseKey: raw}
	}

	sections := mapSections(req.Mode, structured)

	resp := &api.AssistantResponse{
		Content:     render(req.Mode, structured),
		Structured:  structured,
		Sections:    sections,
		Suggestions: suggestions(req.Mode),
	}

	s.ingest(req, cl, latency, len(sections))

	return resp, nil
}

// Chat forwards a conversation through the provider client, supplying
// the system turn when the caller sent none.
func (s *service) Chat(ctx context.Context, req *api.ChatRequest) string {
	hasSystem := false
	for _, m := range req.Messages {
		if m.Role == api.RoleSystem {
			hasSystem = true
			break
		}
	}

	r := *req
	if !hasSystem {
		r.Messages = append([]api.ChatMessage{
			{Role: api.RoleSystem, Content: prompts.SystemMessage()},
		}, req.Messages...)
	}

	cl := s.newClient(ctx, req.TenantID)
	return cl.Chat(ctx, &r)
}

// Modes describes the mode catalog for the UI.
func (s *service) Modes() []api.ModeInfo {
	descriptions := map[api.Mode]string{
		api.ModeExplain: "Break a topic down into a step-by-step classroom explanation",
		api.ModeAssist:  "Get immediate help with a live classroom situation",
		api.ModePlan:    "Draft a complete lesson plan",
	}

	out := make([]api.ModeInfo, 0, len(fieldTables))
	for _, mode := range []api.Mode{api.ModeExplain, api.ModeAssist, api.ModePlan} {
		fields := make([]string, 0, len(fieldTables[mode]))
		for _, spec := range fieldTables[mode] {
			fields = append(fields, spec.Field)
		}
		out = append(out, api.ModeInfo{
			Mode:        mode,
			Description: descriptions[mode],
			Fields:      fields,
			Suggestions: suggestions(mode),
		})
	}
	return out
}

func (s *service) buildPrompt(req *api.AssistantRequest) string {
	switch req.Mode {
	case api.ModeExplain:
		if isMathProblem(req.InputText) {
			return prompts.BuildMathExplain(req)
		}
		return prompts.BuildExplain(req)
	case api.ModeAssist:
		return prompts.BuildAssist(req)
	default:
		return prompts.BuildPlan(req)
	}
}

func (s *service) ingest(req *api.AssistantRequest, cl generator, latency time.Duration, sectionCount int) {
	if s.ingestor == nil {
		return
	}
	s.ingestor.Log(&model.RequestLog{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		Mode:       string(req.Mode),
		Provider:   cl.Provider(),
		Model:      cl.Model(),
		DemoMode:   cl.DemoMode(),
		LatencyMS:  latency.Milliseconds(),
		SectionCnt: sectionCount,
		CreatedAt:  time.Now(),
	})
}
