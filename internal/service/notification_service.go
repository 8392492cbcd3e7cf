package service

import (
	"context"
	"encoding/json"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/pkg/mailer"
	"ajo-circle-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotificationService interface {
	Consume(ctx context.Context) error
}

// notificationService drains the in-process pipeline and fans each message
// out to email and the websocket hub. Delivery is best effort: a failed
// email never blocks settlement, which already happened.
type notificationService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	mailer    mailer.IEmailService
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	hub *websocket.Hub,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		pubSub:    pubSub,
		topicName: topicName,
		mailer:    emailService,
		hub:       hub,
		logger:    log,
	}
}

func (s *notificationService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *notificationService) processMessage(msg *message.Message) {
	var payload dto.NotifyMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("NotificationService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying will not help
		return
	}

	if s.hub != nil {
		s.hub.Send(payload.UserId, payload.Kind, payload)
	}

	if s.mailer != nil && payload.Email != "" {
		var err error
		switch payload.Kind {
		case dto.NotifyPaymentReceipt, dto.NotifyMemberActivated:
			err = s.mailer.SendPaymentReceipt(payload.Email, payload.GroupName, payload.Reference, payload.Amount)
		case dto.NotifyPayoutSettled:
			err = s.mailer.SendPayoutNotice(payload.Email, payload.GroupName, payload.CycleNumber, payload.Amount)
		case dto.NotifyOverduePenalty:
			err = s.mailer.SendOverdueReminder(payload.Email, payload.GroupName, payload.CycleNumber, payload.Amount, payload.Penalty)
		}
		if err != nil {
			s.logger.Warn("NotificationService", "Email delivery failed", map[string]interface{}{
				"kind": payload.Kind, "error": err.Error(),
			})
		}
	}

	msg.Ack()
}
