package observability

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/streamguard-io/streamguard/pkg/guard"
)

// RecordDecision attaches a span event describing a guard decision, never
// including the chunk's content or match text: only the outcome, the
// reason string a Block rule was configured with, and the engine's running
// score. span may be nil, in which case this is a no-op.
func RecordDecision(span trace.Span, decision guard.Decision, score int) {
	if span == nil || !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("streamguard.decision", decision.Kind.String()),
		attribute.Int("streamguard.score", score),
	}
	if decision.IsBlock() {
		attrs = append(attrs, attribute.String("streamguard.reason", decision.Reason))
	}
	span.AddEvent("streamguard.decision", trace.WithAttributes(attrs...))
}

// Redaction describes how to treat one telemetry attribute key that a host
// wants to attach to a span: drop it outright, mask the middle of its
// value, hash it for correlation without exposing it, or replace it with a
// fixed placeholder.
type Redaction struct {
	Attribute string
	Strategy  string // "drop" (default), "mask", "hash", or "replace"
}

var defaultDropKeys = map[string]struct{}{
	"http.request.header.authorization": {},
	"http.response.header.set_cookie":   {},
	"request.body":                      {},
	"response.body":                     {},
}

// RedactAttributes applies a conservative default deny-list plus any
// caller-supplied redactions to a set of span attributes before they are
// exported. It never consults the chunk content the guard engine saw.
func RedactAttributes(redactions []Redaction, attrs []attribute.KeyValue) []attribute.KeyValue {
	if len(attrs) == 0 {
		return attrs
	}

	strategies := make(map[string]string, len(redactions))
	for _, r := range redactions {
		strategy := strings.ToLower(r.Strategy)
		if strategy == "" {
			strategy = "drop"
		}
		strategies[r.Attribute] = strategy
	}

	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, kv := range attrs {
		key := string(kv.Key)
		if _, drop := defaultDropKeys[key]; drop {
			continue
		}

		switch strategies[key] {
		case "drop":
			continue
		case "mask":
			out = append(out, attribute.String(key, maskValue(kv.Value.AsString())))
		case "hash":
			out = append(out, attribute.String(key, hashValue(kv.Value.AsString())))
		case "replace":
			out = append(out, attribute.String(key, "[REDACTED]"))
		default:
			out = append(out, kv)
		}
	}
	return out
}

func maskValue(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

func hashValue(s string) string {
	if s == "" {
		return "[REDACTED:empty]"
	}
	hash := 0
	for _, ch := range s {
		hash = hash*31 + int(ch)
	}
	return fmt.Sprintf("[REDACTED:hash:%08x]", hash&0xFFFFFFFF)
}
