package sns

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/reservations-api/internal/config"
)

// Sender delivers verification codes and confirmations as plain SMS via
// AWS SNS. Used as the fallback channel when WhatsApp credentials are not
// configured.
type Sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *Sender) SendCode(ctx context.Context, to, code string) error {
	return s.publish(ctx, to, "Your verification code is "+code)
}

func (s *Sender) SendConfirmation(ctx context.Context, to, name string, reservationTime time.Time) error {
	msg := fmt.Sprintf("Hi %s, your reservation for %s is confirmed.",
		name, reservationTime.Format("Monday, January 2, 2006 at 3:04 PM"))
	return s.publish(ctx, to, msg)
}

func (s *Sender) publish(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}
