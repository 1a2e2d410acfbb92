package client

import (
	"strings"

	"github.com/chalkline/assistant-api/internal/config"
	"github.com/chalkline/assistant-api/internal/llm"
	"github.com/chalkline/assistant-api/internal/store/model"
)

// tier is one source of provider settings in precedence order.
type tier struct {
	source   string
	provider string
	apiKey   string
	model    string
	baseURL  string
}

// resolve walks tenant > system > environment and builds the provider
// configuration from the first tier that names a provider. Returns the
// resolved config, the winning source label, and whether the client
// must run in demo mode.
func resolve(tenant *model.TenantSettings, system *model.SystemSettings, env config.ProviderEnv) (llm.ProviderConfig, string, bool) {
	tiers := make([]tier, 0, 3)

	if tenant != nil {
		tiers = append(tiers, tier{
			source:   "tenant",
			provider: tenant.Provider,
			apiKey:   tenant.APIKey,
			model:    tenant.Model,
			baseURL:  tenant.BaseURL,
		})
	}
	if system != nil {
		tiers = append(tiers, tier{
			source:   "system",
			provider: system.Provider,
			apiKey:   system.APIKey,
			model:    system.Model,
			baseURL:  system.BaseURL,
		})
	}
	tiers = append(tiers, tier{
		source:   "environment",
		provider: env.Name,
		apiKey:   env.APIKey,
		model:    env.Model,
		baseURL:  env.BaseURL,
	})

	for _, t := range tiers {
		kind, ok := parseKind(t.provider)
		if !ok {
			continue
		}

		cfg := llm.ProviderConfig{
			Kind:    kind,
			APIKey:  t.apiKey,
			Model:   t.model,
			BaseURL: t.baseURL,
		}

		// A usable key, or a self-hosted proxy with a reachable base
		// URL, makes the tier live. Otherwise demo mode, never a fail.
		if isPlaceholderKey(cfg.APIKey) && !(kind == llm.Proxy && cfg.BaseURL != "") {
			return cfg, t.source, true
		}

		return cfg, t.source, false
	}

	return llm.ProviderConfig{}, "", true
}

func parseKind(name string) (llm.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai", "gpt":
		return llm.OpenAI, true
	case "gemini", "google":
		return llm.Gemini, true
	case "azure", "azure_openai", "azure-openai":
		return llm.AzureOpenAI, true
	case "anthropic", "claude":
		return llm.Anthropic, true
	case "proxy", "generic", "openai_compatible", "openai-compatible":
		return llm.Proxy, true
	}
	return "", false
}

// isPlaceholderKey catches the blanks and sample values admins leave
// behind in half-configured deployments.
func isPlaceholderKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "", "changeme", "demo", "placeholder", "none", "null":
		return true
	}
	return strings.HasPrefix(k, "your-") || strings.HasPrefix(k, "your_") || strings.HasPrefix(k, "<")
}
