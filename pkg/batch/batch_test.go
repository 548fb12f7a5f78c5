package batch

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/borud/broker"

	"github.com/clayne/papyrus-parser/pkg/events"
	"github.com/clayne/papyrus-parser/pkg/parser"
)

func newTestBroker() *broker.Broker {
	return broker.New(broker.Config{
		DownStreamChanLen:  16,
		PublishChanLen:     16,
		SubscribeChanLen:   16,
		UnsubscribeChanLen: 16,
		DeliveryTimeout:    100 * time.Millisecond,
	})
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestRun_PublishesParsedAndFailed(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "Good.psc", "ScriptName Good\n")
	bad := writeScript(t, dir, "Bad.psc", "ScriptName\n")

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	b := newTestBroker()

	sub, err := b.Subscribe(Topic)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	batch := New(b, logger, parser.DefaultOptions(), 2)
	summary := batch.Run([]string{good, bad})

	if summary.Parsed != 1 || summary.Failed != 1 {
		t.Fatalf("Summary = %+v, want 1 parsed, 1 failed", summary)
	}

	var gotParsed, gotFailed, gotComplete bool
	timeout := time.After(2 * time.Second)
	for !gotParsed || !gotFailed || !gotComplete {
		select {
		case msg := <-sub.Messages():
			switch ev := msg.Payload.(type) {
			case events.EventScriptParsed:
				gotParsed = true
				if ev.Name != "Good" {
					t.Errorf("EventScriptParsed.Name = %q, want %q", ev.Name, "Good")
				}
			case events.EventScriptFailed:
				gotFailed = true
				if ev.Path != bad {
					t.Errorf("EventScriptFailed.Path = %q, want %q", ev.Path, bad)
				}
			case events.EventBatchComplete:
				gotComplete = true
				if ev.Total != 2 || ev.Parsed != 1 || ev.Failed != 1 {
					t.Errorf("EventBatchComplete = %+v, want Total=2 Parsed=1 Failed=1", ev)
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for events: parsed=%v failed=%v complete=%v", gotParsed, gotFailed, gotComplete)
		}
	}
}

func TestRun_MissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	b := newTestBroker()
	batch := New(b, logger, parser.DefaultOptions(), 1)

	summary := batch.Run([]string{"/nonexistent/Script.psc"})
	if summary.Failed != 1 || summary.Parsed != 0 {
		t.Fatalf("Summary = %+v, want 1 failed", summary)
	}
}
