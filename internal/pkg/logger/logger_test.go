package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewHonoursLevel(t *testing.T) {
	l, err := New("debug", false)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := ParseLevel("loud"); got != zapcore.InfoLevel {
		t.Fatalf("ParseLevel(loud) = %v, want info", got)
	}
	if got := ParseLevel(" WARN "); got != zapcore.WarnLevel {
		t.Fatalf("ParseLevel(WARN) = %v, want warn", got)
	}
}

func TestNamedAttachesComponent(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)

	Named(zap.New(core), "claims").Info("hello")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["component"]; got != "claims" {
		t.Fatalf("component = %v, want claims", got)
	}
}

func TestNamedNilParent(t *testing.T) {
	if Named(nil, "x") == nil {
		t.Fatal("expected a usable logger")
	}
}
