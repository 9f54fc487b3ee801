package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient resolves provider keys from Secrets Manager. Lookups,
// including misses, are cached for the life of the process.
type SecretsClient struct {
	api    secretsAPI
	mu     sync.RWMutex
	values map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return newSecretsClient(secretsmanager.NewFromConfig(cfg))
}

func newSecretsClient(api secretsAPI) *SecretsClient {
	return &SecretsClient{api: api, values: map[string]string{}}
}

// GetSecret returns the string value stored under name. A secret that does
// not exist yields "" and no error so callers fall back to their defaults.
func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	if v, ok := s.cached(name); ok {
		return v, nil
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	var notFound *types.ResourceNotFoundException
	switch {
	case errors.As(err, &notFound):
		s.store(name, "")
		return "", nil
	case err != nil:
		return "", fmt.Errorf("secrets: read %s: %w", name, err)
	case out.SecretString == nil:
		return "", fmt.Errorf("secrets: %s is binary, expected a string", name)
	}

	s.store(name, *out.SecretString)
	return *out.SecretString, nil
}

func (s *SecretsClient) cached(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

func (s *SecretsClient) store(name, value string) {
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
}
