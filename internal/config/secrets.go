package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretGetter is the slice of the Secrets Manager API used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsClient builds a Secrets Manager client from the default AWS chain.
func NewSecretsClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// ResolveAIKey fills AIAPIKey from Secrets Manager when only a secret id is configured.
// An explicit AI_API_KEY always wins.
func (c *Config) ResolveAIKey(ctx context.Context, sm SecretGetter) error {
	if c.AIAPIKey != "" || c.AIAPIKeySecretID == "" {
		return nil
	}
	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(c.AIAPIKeySecretID),
	})
	if err != nil {
		return fmt.Errorf("get secret %s: %w", c.AIAPIKeySecretID, err)
	}
	c.AIAPIKey = aws.ToString(out.SecretString)
	return nil
}
