package river_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	goriver "github.com/riverqueue/river"

	_ "modernc.org/sqlite"

	riveradapter "github.com/neomorfeo/orderguard/internal/adapter/river"
	"github.com/neomorfeo/orderguard/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := t.TempDir() + "/river_test.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		t.Fatalf("setting WAL: %v", err)
	}

	return db
}

// startClient sets up River, subscribes to completions, and starts processing.
func startClient(t *testing.T, db *sql.DB) (*riveradapter.Client, <-chan *goriver.Event) {
	t.Helper()
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := riveradapter.Setup(ctx, db, logger)
	if err != nil {
		t.Fatalf("river setup: %v", err)
	}

	// Subscribe before starting so we don't miss events.
	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	t.Cleanup(subscribeCancel)

	if err := client.Start(ctx); err != nil {
		t.Fatalf("river start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			t.Errorf("river stop: %v", err)
		}
	})

	return client, subscribeChan
}

func TestPublisher_Publish_EnqueuesJob(t *testing.T) {
	db := setupTestDB(t)
	client, completed := startClient(t, db)

	pub := riveradapter.NewPublisher(client)
	order := domain.NewOrder("o-1", "tenantA", "Alice", domain.StatusPending)

	if err := pub.Publish(context.Background(), domain.EventOrderCreated, order); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case event := <-completed:
		if event.Job.Kind != "order.event" {
			t.Errorf("job kind = %q, want %q", event.Job.Kind, "order.event")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}

func TestPublisher_Publish_PreservesEventData(t *testing.T) {
	db := setupTestDB(t)
	client, completed := startClient(t, db)

	pub := riveradapter.NewPublisher(client)
	order := domain.NewOrder("o-42", "tenantB", "Eve Wilson", domain.StatusInProgress)

	if err := pub.Publish(context.Background(), domain.EventOrderStatusChanged, order); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case event := <-completed:
		argsStr := string(event.Job.EncodedArgs)
		for _, want := range []string{
			`"event":"order.status_changed"`,
			`"order_id":"o-42"`,
			`"tenant_id":"tenantB"`,
			`"status":"in_progress"`,
		} {
			if !strings.Contains(argsStr, want) {
				t.Errorf("encoded args missing %s, got: %s", want, argsStr)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}
