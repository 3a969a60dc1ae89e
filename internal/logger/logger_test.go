package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOptions_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Environment: "production", Level: "debug", Output: &buf})
	log.WithField("component", "client").Debug("probe")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "client" || entry["msg"] != "probe" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithOptions_Level(t *testing.T) {
	log := NewWithOptions(Options{Environment: "local", Level: "warn", Output: &bytes.Buffer{}})
	if log.Logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %s", log.Logger.GetLevel())
	}
}

func TestWithRequest_StampsRequestID(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://localhost/predict", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	entry := Discard().WithRequest(req)

	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		t.Fatalf("expected request id header to be set")
	}
	if entry.Data["req_id"] != id || entry.Data["path"] != "/predict" {
		t.Fatalf("unexpected fields: %v", entry.Data)
	}

	again := Discard().WithRequest(req)
	if again.Data["req_id"] != id {
		t.Fatalf("existing request id was replaced")
	}
}

func TestWithError(t *testing.T) {
	entry := Discard().WithError(errString("boom"))
	if !strings.Contains(entry.Data["error"].(string), "boom") {
		t.Fatalf("unexpected error field: %v", entry.Data)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
