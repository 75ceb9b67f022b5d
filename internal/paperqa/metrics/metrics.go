// Package metrics provides business metric collection for the service.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds service counters. All counters are updated atomically and are
// safe for concurrent use.
type Metrics struct {
	// Query metrics
	queriesTotal  uint64
	queriesErrors uint64

	// Retrieval metrics
	retrievalTotal    uint64
	retrievalErrors   uint64
	retrievalDuration float64 // seconds

	// LLM call metrics
	llmCallsTotal    uint64
	llmCallsErrors   uint64
	llmCallsDuration float64 // seconds

	// Ingestion metrics
	documentsIngested uint64
	chunksIngested    uint64
	ingestErrors      uint64

	// Audit log metrics
	auditWrites uint64
	auditErrors uint64

	startTime  time.Time
	durationMu sync.Mutex
}

var (
	global *Metrics
	once   sync.Once
)

// Get returns the global metrics instance.
func Get() *Metrics {
	once.Do(func() {
		global = New()
	})
	return global
}

// New creates a fresh metrics instance.
func New() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordQuery records a completed query.
func (m *Metrics) RecordQuery(err error) {
	atomic.AddUint64(&m.queriesTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.queriesErrors, 1)
	}
}

// RecordRetrieval records a retrieval operation.
func (m *Metrics) RecordRetrieval(duration time.Duration, err error) {
	atomic.AddUint64(&m.retrievalTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.retrievalErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.retrievalDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordLLMCall records a generation call.
func (m *Metrics) RecordLLMCall(duration time.Duration, err error) {
	atomic.AddUint64(&m.llmCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.llmCallsErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.llmCallsDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordIngest records an ingestion batch.
func (m *Metrics) RecordIngest(documents, chunks int, err error) {
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsIngested, uint64(documents))
	atomic.AddUint64(&m.chunksIngested, uint64(chunks))
}

// RecordAuditWrite records an audit log write attempt.
func (m *Metrics) RecordAuditWrite(err error) {
	atomic.AddUint64(&m.auditWrites, 1)
	if err != nil {
		atomic.AddUint64(&m.auditErrors, 1)
	}
}

// Snapshot returns the current counter values as a flat map.
func (m *Metrics) Snapshot() map[string]any {
	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	llmDuration := m.llmCallsDuration
	m.durationMu.Unlock()

	return map[string]any{
		"queries_total":              atomic.LoadUint64(&m.queriesTotal),
		"queries_errors":             atomic.LoadUint64(&m.queriesErrors),
		"retrieval_total":            atomic.LoadUint64(&m.retrievalTotal),
		"retrieval_errors":           atomic.LoadUint64(&m.retrievalErrors),
		"retrieval_duration_seconds": retrievalDuration,
		"llm_calls_total":            atomic.LoadUint64(&m.llmCallsTotal),
		"llm_calls_errors":           atomic.LoadUint64(&m.llmCallsErrors),
		"llm_calls_duration_seconds": llmDuration,
		"documents_ingested":         atomic.LoadUint64(&m.documentsIngested),
		"chunks_ingested":            atomic.LoadUint64(&m.chunksIngested),
		"ingest_errors":              atomic.LoadUint64(&m.ingestErrors),
		"audit_writes":               atomic.LoadUint64(&m.auditWrites),
		"audit_errors":               atomic.LoadUint64(&m.auditErrors),
		"uptime_seconds":             time.Since(m.startTime).Seconds(),
	}
}
