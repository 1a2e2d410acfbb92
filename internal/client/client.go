package client

import (
	"context"
	"fmt"
	"time"

	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/store/model"
	"github.com/chalkline/assistant-api/pkg/api"
	"go.uber.org/zap"
)

const (
	generateTimeout = 30 * time.Second
	// Proxies may add hops, so the generic proxy path gets longer.
	proxyTimeout = 60 * time.Second
)

// Options carries the settings tiers for one request. Tenant settings
// win over system settings, which win over the process environment.
type Options struct {
	Tenant *model.TenantSettings
	System *model.SystemSettings
	Env    config.ProviderEnv
	Logger *zap.Logger

	// transport overrides construction, for tests.
	transport llm.Transport
}

// Client is the single capability surface over all provider backends.
// One instance is built per request and owns its resolved configuration
// exclusively; nothing here is shared across tenants or requests.
//
// Neither Generate nor Chat ever returns an error: every failure mode
// degrades to a string the downstream pipeline can still work with.
type Client struct {
	cfg       llm.ProviderConfig
	source    string
	transport llm.Transport
	demo      bool
	fallback  bool
	logger    *zap.Logger
}

// New resolves credentials and performs a cheap readiness check. It
// never makes a network call; an unconstructable transport downgrades
// to demo mode instead of failing.
func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg, source, demo := resolve(opts.Tenant, opts.System, opts.Env)

	c := &Client{
		cfg:    cfg,
		source: source,
		demo:   demo,
		logger: log,
	}

	if envKind, ok := parseKind(opts.Env.Name); ok {
		c.fallback = !demo && cfg.Kind != llm.Proxy && envKind == llm.Proxy && opts.Env.BaseURL != ""
	}

	if demo {
		log.Info("no usable AI credentials resolved, running in demo mode")
		return c
	}

	if opts.transport != nil {
		c.transport = opts.transport
		return c
	}

	transport, err := llm.New(cfg)
	if err != nil {
		log.Warn("transport construction failed, downgrading to demo mode",
			zap.String("provider", string(cfg.Kind)),
			zap.Error(err),
		)
		c.demo = true
		return c
	}
	c.transport = transport

	return c
}

// DemoMode reports whether the client resolved no usable credentials.
func (c *Client) DemoMode() bool { return c.demo }

// Provider returns the resolved provider kind, or "demo".
func (c *Client) Provider() string {
	if c.demo {
		return "demo"
	}
	return string(c.cfg.Kind)
}

// Model returns the resolved model name.
func (c *Client) Model() string { return c.cfg.Model }

// FallbackAvailable reports whether a generic proxy is independently
// configured in the environment tier as a potential last resort.
// Automatic failover to it is deliberately not implemented; callers
// must not assume any cross-provider retry occurs.
func (c *Client) FallbackAvailable() bool { return c.fallback }

// Generate runs one prompt through the resolved provider. The result
// is always a usable string: the model's text, the demo payload, or an
// error-prefixed message.
func (c *Client) Generate(ctx context.Context, req *api.GenerationRequest) string {
	if c.demo {
		return demoGenerationPayload
	}

	r := *req
	r.Prompt = withLanguage(req.Prompt, req.Language)

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	start := time.Now()
	text, err := c.transport.Generate(ctx, &r)
	if err != nil {
		c.logger.Warn("generation failed",
			zap.String("provider", string(c.cfg.Kind)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}

	return result{text: text, err: err}.serialize()
}

// Chat runs a multi-turn conversation through the resolved provider.
// Per-provider message reshaping happens inside the transport, not
// here and not in the orchestrator.
func (c *Client) Chat(ctx context.Context, req *api.ChatRequest) string {
	if c.demo {
		return demoChatReply
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	start := time.Now()
	text, err := c.transport.Chat(ctx, req)
	if err != nil {
		c.logger.Warn("chat failed",
			zap.String("provider", string(c.cfg.Kind)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}

	return result{text: text, err: err}.serialize()
}

func (c *Client) timeout() time.Duration {
	if c.cfg.Kind == llm.Proxy {
		return proxyTimeout
	}
	return generateTimeout
}

// withLanguage prepends an output-language instruction for non-English
// requests. Baking it into the prompt guarantees uniform behavior
// across providers that do and do not support locale hints.
func withLanguage(prompt, language string) string {
	if language == "" || language == "en" {
		return prompt
	}
	return fmt.Sprintf("Respond entirely in the language with ISO code %q.\n\n%s", language, prompt)
}
