package llm

import (
	"context"
	"os"
	"strings"
)

// EnvCredentialResolver reads API keys from <PROVIDER>_API_KEY variables,
// e.g. OPENAI_API_KEY. A missing variable resolves to "".
type EnvCredentialResolver struct {
	lookup func(string) (string, bool)
}

func NewEnvCredentialResolver() *EnvCredentialResolver {
	return &EnvCredentialResolver{lookup: os.LookupEnv}
}

func (r *EnvCredentialResolver) APIKey(_ context.Context, provider string) (string, error) {
	name := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(provider)) + "_API_KEY"

	value, _ := r.lookup(name)

	return strings.TrimSpace(value), nil
}
