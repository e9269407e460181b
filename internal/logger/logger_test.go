package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := InitWriter(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("InitWriter returned error: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected info record to be filtered at warn level")
	}
	if !strings.Contains(out, `"k":"v"`) {
		t.Errorf("Expected JSON attribute in output, got %q", out)
	}
	if Get() != l {
		t.Error("Expected Get to return the initialized logger")
	}
}

func TestInit_InvalidValues(t *testing.T) {
	if _, err := Init("loud", "text"); err == nil {
		t.Error("Expected error for invalid level")
	}
	if _, err := Init("info", "xml"); err == nil {
		t.Error("Expected error for invalid format")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")
	ctx := WithContext(context.Background(), scoped)
	if FromContext(ctx) != scoped {
		t.Error("Expected scoped logger from context")
	}
	if FromContext(context.Background()) != Get() {
		t.Error("Expected global logger without a scoped one")
	}
}
