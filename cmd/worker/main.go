package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshi-samarth/AirlineManagementSystem/config"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/email"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/kafka"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.NotificationsTopic == "" {
		logrus.Fatal("kafka.brokers and kafka.notifications_topic are required for the notifier")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewEventConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	logrus.WithField("topic", cfg.Kafka.NotificationsTopic).Info("notifier started")
	if err := consumer.Consume(ctx, sender.Send); err != nil {
		logrus.WithError(err).Error("consumer stopped")
		return
	}
	logrus.Info("notifier stopped")
}
