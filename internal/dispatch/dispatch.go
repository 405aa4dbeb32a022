// Package dispatch decorates a mail backend with tracing, metrics and
// structured logging.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scope = "github.com/shandysiswandi/gomailer/internal/dispatch"

// Dispatcher is a mail.Mailer that records every send attempt before
// delegating to the configured backend.
type Dispatcher struct {
	next    mail.Mailer
	backend string
	ids     uid.StringID

	tracer   trace.Tracer
	sent     metric.Int64Counter
	failed   metric.Int64Counter
	duration metric.Float64Histogram
}

// New wraps the backend of client.
func New(client mail.Client, ins instrument.Instrumentation, ids uid.StringID) (*Dispatcher, error) {
	meter := ins.Meter(scope)

	sent, err := meter.Int64Counter("mail.sent",
		metric.WithDescription("Emails accepted by the backend."),
	)
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter("mail.failed",
		metric.WithDescription("Emails the backend rejected or could not deliver."),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("mail.send.duration",
		metric.WithDescription("Time spent in the backend send call."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		next:     client.Mailer(),
		backend:  client.Kind().String(),
		ids:      ids,
		tracer:   ins.Tracer(scope),
		sent:     sent,
		failed:   failed,
		duration: duration,
	}, nil
}

// Sender returns the sender of the wrapped backend.
func (d *Dispatcher) Sender() mail.Address {
	return d.next.Sender()
}

// Send delivers msg through the wrapped backend. Errors are returned as-is.
func (d *Dispatcher) Send(ctx context.Context, msg mail.Message) error {
	if instrument.GetCorrelationID(ctx) == "" && d.ids != nil {
		ctx = instrument.SetCorrelationID(ctx, d.ids.Generate())
	}

	backend := attribute.String("mail.backend", d.backend)

	ctx, span := d.tracer.Start(ctx, "mail.Send", trace.WithAttributes(
		backend,
		attribute.Int("mail.recipients", len(msg.Recipients)),
	))
	defer span.End()

	start := time.Now()
	err := d.next.Send(ctx, msg)
	d.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(backend))

	if err != nil {
		code := mail.CodeOf(err).String()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("mail.error_code", code))
		d.failed.Add(ctx, 1, metric.WithAttributes(backend, attribute.String("mail.error_code", code)))

		slog.ErrorContext(ctx, "failed to send email",
			"backend", d.backend,
			"subject", msg.Subject,
			"recipients", len(msg.Recipients),
			"code", code,
			"error", err,
		)
		return err
	}

	d.sent.Add(ctx, 1, metric.WithAttributes(backend))
	slog.InfoContext(ctx, "email sent",
		"backend", d.backend,
		"subject", msg.Subject,
		"recipients", len(msg.Recipients),
	)

	return nil
}
