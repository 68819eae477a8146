package entangler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the entangler processor.
// A nil *Metrics records nothing.
type Metrics struct {
	Instructions         *prometheus.CounterVec
	RegistrationsCreated *prometheus.CounterVec
	InstructionDuration  *prometheus.HistogramVec
}

// NewMetrics creates the processor metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Instructions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "entangler_instructions_total",
			Help: "Total number of processed instructions by outcome",
		}, []string{"instruction", "outcome"}),
		RegistrationsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "entangler_registrations_created_total",
			Help: "Total number of registration records created",
		}, []string{"kind"}),
		InstructionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entangler_instruction_duration_seconds",
			Help:    "Duration of instruction processing",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"instruction"}),
	}
}

// ObserveInstruction records the outcome and duration of one instruction.
// Call with time.Now() at the start of the instruction.
func (m *Metrics) ObserveInstruction(instruction, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Instructions.WithLabelValues(instruction, outcome).Inc()
	m.InstructionDuration.WithLabelValues(instruction).Observe(time.Since(start).Seconds())
}

// IncrementRegistrations records n newly created registrations of kind.
func (m *Metrics) IncrementRegistrations(kind string, n int) {
	if m == nil {
		return
	}
	m.RegistrationsCreated.WithLabelValues(kind).Add(float64(n))
}
