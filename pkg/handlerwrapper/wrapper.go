package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fitcomp/pkg/observability/attr"
	"github.com/Black-And-White-Club/fitcomp/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result is one outbound event produced by a typed handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// MetadataTopic is set on every outbound message.
const MetadataTopic = "topic"

// WrapTransformingTyped adapts a typed handler to a watermill handler func.
//
// The inbound payload is decoded as JSON into T. Undecodable payloads are
// logged and acknowledged, since redelivery can never succeed. Handler errors
// nack the message. Results are encoded as JSON and published with the inbound
// correlation id.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	m metrics.OperationMetrics,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}

	return func(msg *message.Message) error {
		correlationID := middleware.MessageCorrelationID(msg)
		ctx := attr.WithCorrelationID(msg.Context(), correlationID)

		var span trace.Span
		if tracer != nil {
			ctx, span = tracer.Start(ctx, handlerName, trace.WithAttributes(
				attribute.String("message.uuid", msg.UUID),
				attribute.String("correlation_id", correlationID),
			))
		} else {
			span = trace.SpanFromContext(ctx)
		}
		defer span.End()

		m.RecordOperationAttempt(ctx, handlerName, "handler")
		start := time.Now()
		defer func() {
			m.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Dropping undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_uuid", msg.UUID),
				attr.Error(err),
			)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return err
		}

		for _, r := range results {
			out, err := NewMessage(correlationID, r)
			if err != nil {
				m.RecordOperationFailure(ctx, handlerName, "handler")
				return err
			}
			if publisher == nil {
				return fmt.Errorf("%s: produced %s without a publisher", handlerName, r.Topic)
			}
			if err := publisher.Publish(r.Topic, out); err != nil {
				m.RecordOperationFailure(ctx, handlerName, "handler")
				return fmt.Errorf("%s: publish %s: %w", handlerName, r.Topic, err)
			}
		}

		m.RecordOperationSuccess(ctx, handlerName, "handler")
		return nil
	}
}

// NewMessage encodes a result into a watermill message carrying correlationID.
func NewMessage(correlationID string, r Result) (*message.Message, error) {
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", r.Topic, err)
	}
	out := message.NewMessage(watermill.NewUUID(), body)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, out)
	for k, v := range r.Metadata {
		out.Metadata.Set(k, v)
	}
	out.Metadata.Set(MetadataTopic, r.Topic)
	return out, nil
}
