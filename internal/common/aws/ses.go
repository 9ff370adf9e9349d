// internal/common/aws/ses.go
package aws

import (
	"context"
	"errors"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email is a single-recipient message with HTML and plain-text bodies.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type SESClient struct {
	client sesAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

// SendEmail sends e and returns the SES message id.
func (s *SESClient) SendEmail(ctx context.Context, e Email) (string, error) {
	if e.To == "" {
		return "", errors.New("email recipient is empty")
	}

	body := &types.Body{}
	if e.HTML != "" {
		body.Html = &types.Content{Data: awssdk.String(e.HTML), Charset: awssdk.String("UTF-8")}
	}
	if e.Text != "" {
		body.Text = &types.Content{Data: awssdk.String(e.Text), Charset: awssdk.String("UTF-8")}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      awssdk.String(e.From),
		Destination: &types.Destination{ToAddresses: []string{e.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(e.Subject), Charset: awssdk.String("UTF-8")},
			Body:    body,
		},
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.MessageId), nil
}
