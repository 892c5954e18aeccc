package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailConfig holds the SES delivery parameters.
type EmailConfig struct {
	Sender     string
	Recipients []string
	AWSRegion  string

	// AccessKey / SecretKey are optional static credentials. When empty the
	// SDK's default chain (env vars, shared config, instance role) is used.
	AccessKey string
	SecretKey string
}

// EmailSender delivers messages by email through AWS SES, attaching the
// report file when the message carries one.
type EmailSender struct {
	client     *sesv2.Client
	sender     string
	recipients []string
}

// NewEmailSender creates an EmailSender from the given configuration.
func NewEmailSender(ctx context.Context, cfg EmailConfig) (*EmailSender, error) {
	if cfg.Sender == "" {
		return nil, fmt.Errorf("notify: email sender address is required")
	}
	if len(cfg.Recipients) == 0 {
		return nil, fmt.Errorf("notify: email recipients are required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}

	return &EmailSender{
		client:     sesv2.NewFromConfig(awsCfg),
		sender:     cfg.Sender,
		recipients: cfg.Recipients,
	}, nil
}

// Send builds a raw MIME message (so the attachment survives) and submits it
// via the SES SendEmail API.
func (e *EmailSender) Send(ctx context.Context, msg Message) error {
	raw, err := buildMIME(e.sender, e.recipients, msg.Subject, msg.Body, msg.AttachmentPath)
	if err != nil {
		return fmt.Errorf("email: build message: %w", err)
	}

	_, err = e.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.sender),
		Destination: &types.Destination{
			ToAddresses: e.recipients,
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("email: ses send: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (e *EmailSender) Name() string {
	return "email"
}
