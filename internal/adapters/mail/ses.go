package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/pkg/logger"
)

// SESClient is the subset of the SES v2 API the transport uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// NewSESClient builds an SES v2 client for region. Static credentials are
// used when both keys are set; otherwise the default AWS credential chain applies.
func NewSESClient(ctx context.Context, region, accessKey, secretKey string) (*sesv2.Client, error) {
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

// SESTransport sends notifications through Amazon SES.
type SESTransport struct {
	client SESClient
	from   string
	log    logger.Logger
}

// NewSESTransport creates an SES transport sending from the given address.
func NewSESTransport(client SESClient, from string) *SESTransport {
	return &SESTransport{client: client, from: from, log: logger.Get().Named("mail.ses")}
}

// Send implements Transport.
func (t *SESTransport) Send(ctx context.Context, n model.Notification) error {
	if len(n.Recipients) == 0 {
		return ErrNoRecipients
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(t.from),
		Destination:      &types.Destination{ToAddresses: n.Recipients},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(n.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(n.TextBody), Charset: aws.String("UTF-8")},
					Html: &types.Content{Data: aws.String(n.HTMLBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if n.ReplyTo != "" {
		input.ReplyToAddresses = []string{n.ReplyTo}
	}

	out, err := t.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: ses: %w", ErrTransport, err)
	}

	messageID := ""
	if out != nil && out.MessageId != nil {
		messageID = *out.MessageId
	}
	t.log.Info(ctx, "notification sent",
		logger.String("message_id", messageID),
		logger.Int("recipients", len(n.Recipients)),
		logger.Email("reply_to", n.ReplyTo),
	)
	return nil
}
