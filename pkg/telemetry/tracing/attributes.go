package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for roundtable spans.
const (
	AttrSession     = "roundtable.session_id"
	AttrPersonas    = "roundtable.personas"
	AttrLead        = "roundtable.lead"
	AttrIntent      = "roundtable.intent"
	AttrPlan        = "roundtable.plan"
	AttrProviders   = "roundtable.providers"
	AttrProvider    = "roundtable.provider"
	AttrTool        = "roundtable.tool"
	AttrGateReason  = "roundtable.gate.reason"
	AttrCallCount   = "roundtable.gate.call_count"
	AttrCallCap     = "roundtable.gate.call_cap"
	AttrNormalized  = "roundtable.transcript.outcome"
	AttrDroppedLine = "roundtable.transcript.dropped"
)

// SetSessionAttribute tags span with the conversation identifier.
func SetSessionAttribute(span trace.Span, sessionID string) {
	if sessionID == "" {
		return
	}
	span.SetAttributes(attribute.String(AttrSession, sessionID))
}

// SetPanelAttributes tags span with the addressed personas and their plan.
func SetPanelAttributes(span trace.Span, personas []string, intent, plan string) {
	span.SetAttributes(
		attribute.StringSlice(AttrPersonas, personas),
		attribute.String(AttrIntent, intent),
		attribute.String(AttrPlan, plan),
	)
	if len(personas) > 0 {
		span.SetAttributes(attribute.String(AttrLead, personas[0]))
	}
}

// SetGateAttributes tags span with a tool call admission outcome.
func SetGateAttributes(span trace.Span, tool, provider string, callCount, callCap int) {
	span.SetAttributes(
		attribute.String(AttrTool, tool),
		attribute.String(AttrProvider, provider),
		attribute.Int(AttrCallCount, callCount),
		attribute.Int(AttrCallCap, callCap),
	)
}
