package cron

import (
	"context"
	"errors"
	"log"
	"time"

	"tripay/config"
	invoiceRepo "tripay/database/repository/invoice"
	"tripay/models"
	"tripay/services/payment"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const TypeExpirySweep = "invoice:expiry_sweep"

// staleAfter is how long an unpaid invoice may sit before the sweep checks
// whether its gateway order still exists.
const staleAfter = 6 * time.Hour

// InitExpirySweepWorker runs the async worker and scheduler in background.
// The sweep is an extension of the lazy expiry check: it walks stale unpaid
// invoices and asks the gateway whether their order reference is still
// alive, moving gone orders to the expired status.
func InitExpirySweepWorker(repo invoiceRepo.InvoiceRepository, gateway payment.Gateway, logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpirySweep, handleExpirySweep(repo, gateway, logger))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(TypeExpirySweep, nil)); err != nil {
		logger.Error("expiry sweep: failed to register schedule", zap.Error(err))
		return
	}

	// Start Redis health monitor
	go monitorRedisConnection(logger)

	go func() {
		log.Println("[ExpirySweep] starting async worker...")
		if err := srv.Run(mux); err != nil {
			logger.Error("expiry sweep: worker stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("expiry sweep: scheduler stopped", zap.Error(err))
		}
	}()
}

func handleExpirySweep(repo invoiceRepo.InvoiceRepository, gateway payment.Gateway, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		cutoff := time.Now().Add(-staleAfter)
		invoices, err := repo.ListStaleUnpaid(cutoff)
		if err != nil {
			logger.Error("expiry sweep: listing stale invoices failed", zap.Error(err))
			return err
		}

		expired := 0
		for _, inv := range invoices {
			if inv.ResponseCode == nil {
				continue
			}
			_, err := gateway.GetOrder(ctx, *inv.ResponseCode)
			if err == nil {
				continue
			}
			var gerr *payment.GatewayError
			if !errors.As(err, &gerr) || gerr.Issue != payment.IssueInvalidResourceID {
				// Transient gateway trouble; leave the invoice for the next pass.
				continue
			}
			if err := repo.UpdateFields(inv.ID, bson.M{"status": models.InvoiceStatusExpired}); err != nil {
				logger.Error("expiry sweep: failed to expire invoice",
					zap.String("invoice_id", inv.ID), zap.Error(err))
				continue
			}
			expired++
		}

		logger.Info("expiry sweep finished",
			zap.Int("checked", len(invoices)),
			zap.Int("expired", expired))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("expiry sweep: redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
