package bootstrap

import (
	"context"
	"log"

	"ajo-circle-be/internal/config"
	"ajo-circle-be/internal/controller"
	"ajo-circle-be/internal/handler"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/pkg/mailer"
	"ajo-circle-be/internal/repository/unitofwork"
	"ajo-circle-be/internal/service"
	"ajo-circle-be/internal/websocket"
	"ajo-circle-be/pkg/events"
	"ajo-circle-be/pkg/gateway"

	pktNats "ajo-circle-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// notifyTopic is the in-process channel between the settlement services
// and the notification consumer.
const notifyTopic = "member_notifications"

type Container struct {
	// Controllers
	GroupController   controller.IGroupController
	PaymentController controller.IPaymentController
	ScanController    controller.IScanController

	// WebSockets & Notification
	BoardHandler *handler.BoardHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/board.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	// Initialize Payment Provider based on Config
	var provider gateway.Provider
	if cfg.Payment.Provider == "midtrans" {
		provider = gateway.NewMidtransProvider(cfg.Payment.MidtransServerKey, cfg.Payment.MidtransProduction)
		log.Printf("[INFO] Using Payment Provider: MIDTRANS")
	} else {
		provider = gateway.NewPaystackProvider(cfg.Payment.PaystackSecretKey)
		log.Printf("[INFO] Using Payment Provider: PAYSTACK")
	}

	publisherService := service.NewPublisherService(pubSub, notifyTopic)

	slotService := service.NewSlotService(
		uowFactory,
		wsHub,
		cfg.Rotation.SlotReservationHours,
		sysLogger,
	)
	cycleService := service.NewCycleService(
		uowFactory,
		natsPub,
		publisherService,
		sysLogger,
	)
	membershipService := service.NewMembershipService(
		uowFactory,
		slotService,
		cycleService,
		natsPub,
		publisherService,
		sysLogger,
	)
	paymentService := service.NewPaymentService(
		uowFactory,
		provider,
		membershipService,
		cycleService,
		publisherService,
		cfg.Payment.Currency,
		cfg.Payment.CallbackURL,
		cfg.Payment.VerifyMaxRetries,
		sysLogger,
	)
	penaltyService := service.NewPenaltyService(
		uowFactory,
		cycleService,
		natsPub,
		publisherService,
		cfg.Rotation.PenaltyRateBps,
		sysLogger,
	)
	groupService := service.NewGroupService(
		uowFactory,
		cfg.Rotation.ServiceFeeBps,
		cfg.Rotation.PenaltyRateBps,
		sysLogger,
	)

	// 3.5 Notification System
	notifService := service.NewNotificationService(pubSub, notifyTopic, emailService, wsHub, sysLogger)
	if err := notifService.Consume(context.Background()); err != nil {
		log.Printf("[WARN] Failed to start notification consumer: %v", err)
	}

	// Durable audit trail over the JetStream event bus.
	if natsSub != nil {
		err := natsSub.Subscribe("events.>", "audit-log", func(ctx context.Context, event events.Event) error {
			sysLogger.Info("Audit", "Domain event", map[string]interface{}{
				"type": event.EventType(), "data": event.Payload(),
			})
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to start audit consumer: %v", err)
		}
	}

	// Handler
	boardHandler := handler.NewBoardHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		BoardHandler: boardHandler,
		WebSocketHub: wsHub,

		GroupController:   controller.NewGroupController(groupService, slotService, membershipService, cycleService),
		PaymentController: controller.NewPaymentController(paymentService),
		ScanController:    controller.NewScanController(penaltyService),
	}
}
