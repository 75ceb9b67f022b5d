package metrics_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paperqa-io/paperqa/internal/paperqa/metrics"
)

func TestRecordQuery(t *testing.T) {
	m := metrics.New()

	m.RecordQuery(nil)
	m.RecordQuery(nil)
	m.RecordQuery(errors.New("boom"))

	snap := m.Snapshot()
	assert.EqualValues(t, uint64(3), snap["queries_total"])
	assert.EqualValues(t, uint64(1), snap["queries_errors"])
}

func TestRecordRetrievalAndLLMCall(t *testing.T) {
	m := metrics.New()

	m.RecordRetrieval(100*time.Millisecond, nil)
	m.RecordRetrieval(0, errors.New("down"))
	m.RecordLLMCall(250*time.Millisecond, nil)

	snap := m.Snapshot()
	assert.EqualValues(t, uint64(2), snap["retrieval_total"])
	assert.EqualValues(t, uint64(1), snap["retrieval_errors"])
	assert.InDelta(t, 0.1, snap["retrieval_duration_seconds"], 0.001)
	assert.EqualValues(t, uint64(1), snap["llm_calls_total"])
	assert.InDelta(t, 0.25, snap["llm_calls_duration_seconds"], 0.001)
}

func TestRecordIngest(t *testing.T) {
	m := metrics.New()

	m.RecordIngest(2, 40, nil)
	m.RecordIngest(0, 0, errors.New("bad pdf"))

	snap := m.Snapshot()
	assert.EqualValues(t, uint64(2), snap["documents_ingested"])
	assert.EqualValues(t, uint64(40), snap["chunks_ingested"])
	assert.EqualValues(t, uint64(1), snap["ingest_errors"])
}

func TestRecordAuditWrite(t *testing.T) {
	m := metrics.New()

	m.RecordAuditWrite(nil)
	m.RecordAuditWrite(errors.New("mongo down"))

	snap := m.Snapshot()
	assert.EqualValues(t, uint64(2), snap["audit_writes"])
	assert.EqualValues(t, uint64(1), snap["audit_errors"])
}

func TestConcurrentRecording(t *testing.T) {
	m := metrics.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordQuery(nil)
			m.RecordRetrieval(time.Millisecond, nil)
			m.RecordAuditWrite(nil)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.EqualValues(t, uint64(50), snap["queries_total"])
	assert.EqualValues(t, uint64(50), snap["retrieval_total"])
	assert.EqualValues(t, uint64(50), snap["audit_writes"])
}

func TestGetReturnsSameInstance(t *testing.T) {
	assert.Same(t, metrics.Get(), metrics.Get())
}
