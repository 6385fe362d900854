package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESConfig holds the Amazon SES v2 settings. Empty credentials fall back
// to the default AWS credential chain.
type SESConfig struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	From         string
}

// SESAPI is the subset of the SES v2 client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESTransport sends messages as SES templated emails; the vars become the
// template data object.
type SESTransport struct {
	client SESAPI
	from   string
}

func NewSESTransport(ctx context.Context, cfg SESConfig) (*SESTransport, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("ses: sender address is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load config: %w", err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return NewSESTransportWithClient(client, cfg.From), nil
}

func NewSESTransportWithClient(client SESAPI, from string) *SESTransport {
	return &SESTransport{client: client, from: from}
}

func (t *SESTransport) Send(ctx context.Context, msg Message) error {
	data := make(map[string]string, len(msg.Vars))
	for _, v := range msg.Vars {
		data[v.Key] = v.Value
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("ses: template data: %w", err)
	}

	_, err = t.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(t.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Template: &types.Template{
				TemplateName: aws.String(msg.Template),
				TemplateData: aws.String(string(payload)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses: %w", err)
	}
	return nil
}
