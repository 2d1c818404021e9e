package status

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "molcraft"

// Collector holds the Prometheus metrics for interaction outcomes
// Each Collector owns its registry so tests can create independent instances
// Every update is mirrored onto Board for the terminal status line
type Collector struct {
	registry *prometheus.Registry
	board    *Board

	Merges        prometheus.Counter
	Splits        prometheus.Counter
	Disposals     prometheus.Counter
	DisposedAtoms prometheus.Counter
	Rejections    prometheus.Counter
	Resets        *prometheus.CounterVec // reason
	Errors        *prometheus.CounterVec // kind
	Ignored       *prometheus.CounterVec // process
	Countdowns    *prometheus.CounterVec // process, result

	Roots     prometheus.Gauge
	FreeAtoms prometheus.Gauge
	Atoms     prometheus.Gauge

	Ticks         prometheus.Counter
	TickDuration  prometheus.Histogram
	DroppedEvents prometheus.Gauge
}

// NewCollector creates a collector with a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		board:    NewBoard(),

		Merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Total number of bonds formed by the assembler",
		}),
		Splits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_total",
			Help:      "Total number of bonds removed by the disassembler",
		}),
		Disposals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disposals_total",
			Help:      "Total number of components removed in the disposal area",
		}),
		DisposedAtoms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disposed_atoms_total",
			Help:      "Total number of atoms removed in the disposal area",
		}),
		Rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Total number of atoms rejected for having no free slot",
		}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of coordinator resets",
		}, []string{"reason"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of locally handled interaction errors",
		}, []string{"kind"}),
		Ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ignored_triggers_total",
			Help:      "Total number of triggers ignored because another process was active",
		}, []string{"process"}),
		Countdowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countdowns_total",
			Help:      "Total number of confirm countdowns by result",
		}, []string{"process", "result"}),
		Roots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "molecule_roots",
			Help:      "Current number of molecule trees",
		}),
		FreeAtoms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_atoms",
			Help:      "Current number of atoms in the free pool",
		}),
		Atoms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "atoms",
			Help:      "Current number of live atoms",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of scheduler ticks",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one scheduler tick",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		DroppedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dropped_events",
			Help:      "Events overwritten in the queue before dispatch",
		}),
	}

	c.registry.MustRegister(
		c.Merges, c.Splits, c.Disposals, c.DisposedAtoms, c.Rejections,
		c.Resets, c.Errors, c.Ignored, c.Countdowns,
		c.Roots, c.FreeAtoms, c.Atoms,
		c.Ticks, c.TickDuration, c.DroppedEvents,
	)
	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Board returns the live values mirror
func (c *Collector) Board() *Board {
	return c.board
}

func (c *Collector) IncMerge() {
	c.Merges.Inc()
	c.board.Ints.Get("merges").Add(1)
}

func (c *Collector) IncSplit() {
	c.Splits.Inc()
	c.board.Ints.Get("splits").Add(1)
}

func (c *Collector) IncDisposal(atoms int) {
	c.Disposals.Inc()
	c.DisposedAtoms.Add(float64(atoms))
	c.board.Ints.Get("disposals").Add(1)
}

func (c *Collector) IncRejection() {
	c.Rejections.Inc()
	c.board.Ints.Get("rejections").Add(1)
}

func (c *Collector) IncReset(reason string) {
	c.Resets.WithLabelValues(reason).Inc()
	c.board.Ints.Get("resets").Add(1)
}

func (c *Collector) IncError(kind string) {
	c.Errors.WithLabelValues(kind).Inc()
	c.board.Ints.Get("errors").Add(1)
	c.board.Strings.Get("last_error").Store(kind)
}

func (c *Collector) IncIgnored(process string) {
	c.Ignored.WithLabelValues(process).Inc()
}

func (c *Collector) IncCountdown(process, result string) {
	c.Countdowns.WithLabelValues(process, result).Inc()
}

// SetProcess publishes the active process and registered channel
func (c *Collector) SetProcess(process, channel string) {
	c.board.Strings.Get("process").Store(process)
	c.board.Strings.Get("channel").Store(channel)
}

// SetComponents publishes graph shape gauges
func (c *Collector) SetComponents(roots, free, atoms int) {
	c.Roots.Set(float64(roots))
	c.FreeAtoms.Set(float64(free))
	c.Atoms.Set(float64(atoms))
	c.board.Ints.Get("roots").Store(int64(roots))
	c.board.Ints.Get("free_atoms").Store(int64(free))
}

// ObserveTick records one tick's duration and the queue overflow count
func (c *Collector) ObserveTick(d time.Duration, dropped uint64) {
	c.Ticks.Inc()
	c.TickDuration.Observe(d.Seconds())
	c.DroppedEvents.Set(float64(dropped))
	c.board.Ints.Get("ticks").Add(1)
}
