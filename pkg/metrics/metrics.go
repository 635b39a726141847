// Package metrics expone la instrumentación Prometheus del servicio.
//
// Se monta una vez en el router:
//
//	app.Use(metrics.Middleware())
//	app.Get("/metrics", metrics.Handler())
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

var (
	// RequestDuration duración de cada request HTTP por método, ruta y status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// MovementsRecorded movimientos confirmados por tipo (entrada, salida).
	MovementsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "movements_recorded_total",
			Help:      "Committed stock movements by type.",
		},
		[]string{"type"},
	)

	// MovementsRejected movimientos rechazados por motivo (insufficient_stock, validation, ...).
	MovementsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "movements_rejected_total",
			Help:      "Rejected stock movements by reason.",
		},
		[]string{"reason"},
	)

	MovementsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "movements_deleted_total",
		Help:      "Deleted (and reversed) stock movements.",
	})

	// TxDuration duración de las unidades de trabajo por driver de almacenamiento.
	TxDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "tx_duration_seconds",
			Help:      "Duration of store transactions in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"driver", "outcome"},
	)
)

// Registry registro Prometheus del servicio (no se usa el global por defecto).
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		MovementsRecorded,
		MovementsRejected,
		MovementsDeleted,
		TxDuration,
	)
}

// Middleware registra duración y conteo de cada request. Usa la ruta registrada
// (ej. /api/products/:id) para no disparar la cardinalidad.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(labels...).Inc()
		return err
	}
}

// Handler expone la página de métricas para montar en GET /metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}

// ObserveTx registra la duración de una transacción:
//
//	defer metrics.ObserveTx("postgres", time.Now(), &err)
func ObserveTx(driver string, start time.Time, errp *error) {
	outcome := "commit"
	if errp != nil && *errp != nil {
		outcome = "rollback"
	}
	TxDuration.WithLabelValues(driver, outcome).Observe(time.Since(start).Seconds())
}
