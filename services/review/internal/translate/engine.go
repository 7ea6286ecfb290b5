// Package translate adapts machine translation providers to the Engine
// interface used by the translation cache.
package translate

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"

	"github.com/moviereviews/backend/pkg/tracing"
)

// SourceAuto asks the provider to detect the source language.
const SourceAuto = "auto"

// Engine translates text into a target language.
type Engine interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

var (
	engineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "translation_engine_duration_seconds",
			Help:    "Duration of translation engine calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "outcome"},
	)

	engineCharacters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_engine_characters_total",
			Help: "Characters submitted to the translation engine",
		},
		[]string{"provider"},
	)
)

var tracer = tracing.Tracer("github.com/moviereviews/backend/services/review/internal/translate")

type instrumented struct {
	next     Engine
	provider string
}

// Instrument wraps engine with a span, latency histogram and character count.
func Instrument(engine Engine, provider string) Engine {
	return &instrumented{next: engine, provider: provider}
}

func (e *instrumented) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	ctx, span := tracing.Start(ctx, tracer, "translate.Translate",
		attribute.String("translate.provider", e.provider),
		attribute.String("translate.target_language", targetLanguage),
		attribute.Int("translate.characters", utf8.RuneCountInString(text)),
	)
	start := time.Now()

	out, err := e.next.Translate(ctx, text, targetLanguage)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	engineDuration.WithLabelValues(e.provider, outcome).Observe(time.Since(start).Seconds())
	engineCharacters.WithLabelValues(e.provider).Add(float64(utf8.RuneCountInString(text)))
	tracing.End(span, err)

	return out, err
}
