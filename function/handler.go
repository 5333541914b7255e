package function

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/otelfunc/logger"
	"github.com/kbukum/otelfunc/telemetry"
)

// Instrumentation names and fixed payloads.
const (
	TracerName = "azure-func-tracer"
	LoggerName = "azure-func-logger"
	MeterName  = "azure-func-meter"

	SpanName = "handle-request"

	CounterName        = "http.server.requests"
	CounterDescription = "Count of HTTP requests handled by Azure Function"

	LogBody      = "Function request processed"
	ResponseBody = "Instrumentation Success!"
)

// Handler serves the HttpExample function. Each invocation produces one
// span, one log record and one counter increment.
type Handler struct {
	tracer     trace.Tracer
	records    log.Logger
	requests   metric.Int64Counter
	propagator propagation.TextMapPropagator
	log        *logger.Logger
}

// New creates the handler's instruments from reg.
func New(reg *telemetry.Registry, lg *logger.Logger) (*Handler, error) {
	meter := reg.Meter(MeterName)
	requests, err := meter.Int64Counter(CounterName,
		metric.WithDescription(CounterDescription),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", CounterName, err)
	}

	if lg == nil {
		lg = logger.GetGlobalLogger()
	}
	return &Handler{
		tracer:     reg.Tracer(TracerName),
		records:    reg.Logger(LoggerName),
		requests:   requests,
		propagator: reg.Propagator(),
		log:        lg.WithComponent("function"),
	}, nil
}

// Handle processes one request. The request body is ignored. The span joins
// the trace carried in the traceparent header forwarded by the host.
func (h *Handler) Handle(c *gin.Context) {
	parent := h.propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
	h.Observe(parent, func(ctx context.Context) {
		h.log.WithContext(ctx).Info("processing request", logger.Fields(
			logger.FieldEndpoint, c.FullPath(),
			logger.FieldRequestID, c.GetString(logger.FieldRequestID),
		))

		var rec log.Record
		rec.SetSeverity(log.SeverityInfo)
		rec.SetSeverityText("INFO")
		rec.SetBody(log.StringValue(LogBody))
		h.records.Emit(ctx, rec)

		h.requests.Add(ctx, 1)

		c.String(http.StatusOK, ResponseBody)
	})
}

// Observe runs fn inside the request span. The span is ended exactly once,
// also when fn panics; the panic is re-raised afterwards.
func (h *Handler) Observe(ctx context.Context, fn func(ctx context.Context)) {
	ctx, span := h.tracer.Start(ctx, SpanName, trace.WithSpanKind(trace.SpanKindServer))
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			span.End()
			panic(r)
		}
		span.End()
	}()
	fn(ctx)
}
