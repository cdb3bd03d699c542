// Worker consumes crowd-event detections from Kafka and stores them as alerts.
// Set KAFKA_BROKERS, DETECTIONS_TOPIC, KAFKA_GROUP_ID and DATABASE_URL.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	alertdomain "crowdguard/backend/internal/alert/domain"
	alertrepo "crowdguard/backend/internal/alert/repository"
	"crowdguard/backend/internal/config"
	"crowdguard/backend/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	alerts := alertrepo.NewPostgresRepository(conn)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.DetectionsTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming from %s (group %s)", cfg.DetectionsTopic, cfg.KafkaGroupID)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		det, err := alertdomain.ParseDetection(msg.Value, time.Now())
		if err != nil {
			if errors.Is(err, alertdomain.ErrInvalidDetection) {
				log.Printf("worker: skipping malformed detection at offset %d", msg.Offset)
				continue
			}
			log.Printf("worker: parse detection: %v", err)
			continue
		}

		storeCtx, storeCancel := context.WithTimeout(ctx, 10*time.Second)
		err = alerts.Create(storeCtx, &alertdomain.Alert{
			ID:        uuid.New().String(),
			OrgID:     det.OrganizationID,
			Severity:  det.Severity,
			Message:   det.Message,
			Timestamp: det.Timestamp,
		})
		storeCancel()
		if err != nil {
			log.Printf("worker: store alert for org %s: %v", det.OrganizationID, err)
		}
	}
}
