package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	value  float64
	labels map[string]string
}

type recordingInstrument struct {
	samples []sample
}

func (r *recordingInstrument) record(v float64, labels []observability.Label) {
	m := make(map[string]string, len(labels))
	for _, l := range labels {
		m[l.Key] = l.Value
	}
	r.samples = append(r.samples, sample{value: v, labels: m})
}

func (r *recordingInstrument) Add(d float64, labels ...observability.Label) { r.record(d, labels) }
func (r *recordingInstrument) Bind(...observability.Label) observability.BoundCounter {
	return nil
}
func (r *recordingInstrument) Observe(v float64, labels ...observability.Label) { r.record(v, labels) }

type recordingHistogram struct{ recordingInstrument }

func (r *recordingHistogram) Bind(...observability.Label) observability.BoundHistogram {
	return nil
}

type recordingTel struct {
	requests  *recordingInstrument
	durations *recordingHistogram
}

func (t *recordingTel) Tracer() observability.Tracer { return observability.NopTracer() }
func (t *recordingTel) Logger() observability.Logger { return observability.NopLogger() }
func (t *recordingTel) Metrics() observability.Metrics {
	return t
}
func (t *recordingTel) Counter(name observability.MetricKey) observability.Counter {
	if name == observability.MUsecaseRequests {
		return t.requests
	}
	return observability.NopCounter()
}
func (t *recordingTel) Histogram(name observability.MetricKey) observability.Histogram {
	if name == observability.MUsecaseDuration {
		return t.durations
	}
	return observability.NopHistogram()
}

func newRecordingTel() *recordingTel {
	return &recordingTel{
		requests:  &recordingInstrument{},
		durations: &recordingHistogram{},
	}
}

func TestObserve_RecordsOutcomeLabels(t *testing.T) {
	tel := newRecordingTel()

	_, done := application.Observe(context.Background(), tel, nil, "test.op")
	done(nil)

	_, done = application.Observe(context.Background(), tel, nil, "test.op")
	done(errors.New("boom"))

	require.Len(t, tel.requests.samples, 2)
	assert.Equal(t, "success", tel.requests.samples[0].labels["outcome"])
	assert.Equal(t, "error", tel.requests.samples[1].labels["outcome"])
	assert.Equal(t, "test.op", tel.requests.samples[0].labels["use_case"])

	require.Len(t, tel.durations.samples, 2)
	assert.Equal(t, "test.op", tel.durations.samples[0].labels["use_case"])
}

func TestObserve_NilProviderIsSafe(t *testing.T) {
	ctx, done := application.Observe(context.Background(), nil, nil, "test.op")
	require.NotNil(t, ctx)
	done(nil)
}
