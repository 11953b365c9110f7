package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/one-blood/donation-service/internal/events"
)

// NotificationService logs lifecycle events as they happen. Actual delivery
// (email, push) is handled by external systems reading these logs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDonationCreated, n.handleDonationCreated)
	n.dispatcher.Subscribe(events.EventDonationClaimed, n.handleDonationClaimed)
	n.dispatcher.Subscribe(events.EventDonationStatusChanged, n.handleDonationStatusChanged)
	n.dispatcher.Subscribe(events.EventUserRoleChanged, n.handleUserRoleChanged)
}

func (n *NotificationService) handleDonationCreated(_ context.Context, event events.Event) error {
	n.logger.Info("DonationCreated", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleDonationClaimed(_ context.Context, event events.Event) error {
	n.logger.Info("DonationClaimed", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleDonationStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("DonationStatusChanged", zap.String("actor", event.ActorEmail), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleUserRoleChanged(_ context.Context, event events.Event) error {
	n.logger.Info("UserRoleChanged", zap.Any("payload", event.Payload))
	return nil
}
