package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orderpulse/gateways/internal/bootstrap"
	infraRedis "github.com/orderpulse/gateways/internal/infrastructure/redis"
	"github.com/orderpulse/gateways/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "gateways-worker", "gateways_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	workerCfg := app.Config.Worker
	producer := infraRedis.NewStreamProducer(app.Redis)
	consumer := infraRedis.NewStreamConsumer(
		app.Redis,
		infraRedis.EventStream,
		workerCfg.ConsumerGroup,
		app.Config.InstanceID,
		workerCfg.BatchSize,
		workerCfg.BlockDuration,
	)
	if err := consumer.CreateGroup(ctx); err != nil {
		app.Logger.Error().Err(err).Msg("Failed to create consumer group (may already exist)")
	}

	deliverer := &sinkDeliverer{
		client:  &http.Client{Timeout: workerCfg.DeliveryTimeout},
		sinkURL: workerCfg.SinkURL,
		retryCfg: retry.Config{
			MaxAttempts:  uint(workerCfg.MaxRetries),
			InitialDelay: workerCfg.RetryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}

	app.Logger.Info().
		Str("stream", infraRedis.EventStream).
		Str("group", workerCfg.ConsumerGroup).
		Str("consumer", app.Config.InstanceID).
		Str("sink", workerCfg.SinkURL).
		Msg("Worker started, listening for events...")

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runEventDeliverer(gCtx, app, consumer, producer, deliverer)
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

// runEventDeliverer drains normalized events from the stream and forwards
// them to the configured HTTP sink. Deliveries that exhaust their retries go
// to the DLQ so the stream keeps moving.
func runEventDeliverer(
	ctx context.Context,
	app *bootstrap.App,
	consumer *infraRedis.StreamConsumer,
	producer *infraRedis.StreamProducer,
	deliverer *sinkDeliverer,
) error {
	logger := app.Logger
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := consumer.Read(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read from stream")
			time.Sleep(1 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				start := time.Now()
				payload, _ := msg.Values["payload"].(string)
				eventType, _ := msg.Values["event_type"].(string)

				if err := deliverer.deliver(ctx, eventType, []byte(payload)); err != nil {
					logger.Error().Err(err).
						Str("message_id", msg.ID).
						Str("event_type", eventType).
						Msg("Failed to deliver event, moving to DLQ")
					if dlqErr := producer.PublishToDLQ(ctx, msg.ID, err.Error(), msg.Values); dlqErr != nil {
						logger.Error().Err(dlqErr).Str("message_id", msg.ID).Msg("Failed to publish to DLQ")
					}
					app.Metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.EventStream, "failed").Inc()
				} else {
					app.Metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.EventStream, "success").Inc()
				}

				app.Metrics.WorkerProcessingDuration.WithLabelValues(infraRedis.EventStream).Observe(time.Since(start).Seconds())
				if err := consumer.Ack(ctx, msg.ID); err != nil {
					logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to ack message")
				}
			}
		}
	}
}

type sinkDeliverer struct {
	client   *http.Client
	sinkURL  string
	retryCfg retry.Config
}

func (d *sinkDeliverer) deliver(ctx context.Context, eventType string, payload []byte) error {
	return retry.Do(ctx, d.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.sinkURL, bytes.NewReader(payload))
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Event-Type", eventType)

		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("sink returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			// The sink rejected the event, retrying the same payload
			// cannot succeed.
			return retry.Unrecoverable(fmt.Errorf("sink rejected event with %d", resp.StatusCode))
		}
		return nil
	})
}
