// Package ses implements the AWS SES delivery backend.
package ses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/lattiq/mailrouter/internal/core"
)

// Backend sends mail through AWS SES.
type Backend struct {
	core.Draft
	name     string
	client   *ses.Client
	settings core.Settings
}

// New creates a new AWS SES backend instance.
func New(name string, settings core.Settings) (core.Backend, error) {
	region := settings.Get("region")
	if region == "" {
		return nil, core.NewValidationError("region", "AWS region is required")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, core.WrapBackendError(name, "config_error", err)
	}

	// Explicit credentials override the default chain when provided.
	if accessKey := settings.Get("access_key"); accessKey != "" {
		secretKey := settings.Get("secret_key")
		if secretKey == "" {
			return nil, core.NewValidationError("secret_key", "secret key is required when access key is provided")
		}
		cfg.Credentials = aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: secretKey,
				SessionToken:    settings.Get("session_token"),
			}, nil
		})
	}

	return &Backend{
		name:     name,
		client:   ses.NewFromConfig(cfg),
		settings: settings,
	}, nil
}

// Identifier returns the configured backend name.
func (b *Backend) Identifier() string {
	return b.name
}

// Deliver sends the accumulated message to the single recipient.
func (b *Backend) Deliver(ctx context.Context) (int, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(b.Sender().String()),
		Destination: &types.Destination{
			ToAddresses: []string{b.Recipient().String()},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(b.Subject),
			},
			Body: &types.Body{},
		},
	}

	if b.ReplyTo != "" {
		input.ReplyToAddresses = []string{b.ReplyTo}
	}

	if b.Text != "" {
		input.Message.Body.Text = &types.Content{
			Data: aws.String(b.Text),
		}
	}

	if b.HTML != "" {
		input.Message.Body.Html = &types.Content{
			Data: aws.String(b.HTML),
		}
	}

	if configSet := b.settings.Get("configuration_set"); configSet != "" {
		input.ConfigurationSetName = aws.String(configSet)
	}

	if _, err := b.client.SendEmail(ctx, input); err != nil {
		return 0, core.WrapBackendError(b.name, "send_error", err)
	}
	return 1, nil
}
