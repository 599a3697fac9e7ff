//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"post_scheduler/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessageFormat() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-format",
		RoutingKey: "test-routing-key-format",
		QueueName:  "test-queue-format",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	report := &domain.DispatchReport{
		ItemID:   "item-1",
		ItemName: "Morning promo",
		Outcome:  domain.DispatchPartial,
		Results: []domain.TargetResult{
			{
				PageID:   "111",
				Status:   domain.TargetSuccess,
				PostID:   "900",
				PostMode: domain.PostModeLive,
				Comments: []domain.CommentResult{
					{Text: "check the link", CommentID: "c1", Status: "success"},
				},
			},
			{PageID: "222", Status: domain.TargetFailed, Message: "token expired"},
		},
		PostedIDs: []string{"111_900"},
		Message:   "published to 1/2 pages, attempted 1 comments",
	}

	err = pub.Publish(s.ctx, report)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)

	var received DispatchMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)

	s.Equal("item-1", received.ItemID)
	s.Equal("Morning promo", received.ItemName)
	s.Equal(domain.DispatchPartial, received.Outcome)
	s.Equal([]string{"111_900"}, received.PostedIDs)
	s.Require().Len(received.Results, 2)
	s.Equal(domain.TargetSuccess, received.Results[0].Status)
	s.Len(received.Results[0].Comments, 1)
	s.Equal("token expired", received.Results[1].Message)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-persist",
		RoutingKey: "test-routing-key-persist",
		QueueName:  "test-queue-persist",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	report := &domain.DispatchReport{
		ItemID:  "item-2",
		Outcome: domain.DispatchSuccess,
	}

	err = pub.Publish(s.ctx, report)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
