package store

import (
	"context"
	"os"
	"testing"
)

func setupPostgresTest(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skip integration test: TEST_POSTGRES_DSN is not set")
	}

	pg, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Skipf("skip integration test: cannot connect to database: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pg.pool.Exec(context.Background(), `DELETE FROM channels WHERE channel_id LIKE 'test-%'`)
		pg.Close()
	})
	return pg
}

func TestPostgresChannelRoundTrip(t *testing.T) {
	pg := setupPostgresTest(t)
	ctx := context.Background()

	active, err := pg.IsActive(ctx, "test-unknown")
	if err != nil {
		t.Fatal(err)
	}
	if active {
		t.Fatal("unknown channel must be inactive")
	}

	if err := pg.SetActive(ctx, "test-c1", true); err != nil {
		t.Fatal(err)
	}
	active, err = pg.IsActive(ctx, "test-c1")
	if err != nil {
		t.Fatal(err)
	}
	if !active {
		t.Fatal("channel should be active after SetActive(true)")
	}

	// Upsert flips in place.
	if err := pg.SetActive(ctx, "test-c1", false); err != nil {
		t.Fatal(err)
	}
	active, err = pg.IsActive(ctx, "test-c1")
	if err != nil {
		t.Fatal(err)
	}
	if active {
		t.Fatal("channel should be inactive after SetActive(false)")
	}
}

func TestNopStore(t *testing.T) {
	t.Parallel()

	var s ChannelStore = Nop{}
	ctx := context.Background()
	if err := s.SetActive(ctx, "c1", true); err != nil {
		t.Fatal(err)
	}
	active, err := s.IsActive(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if active {
		t.Fatal("nop store records nothing")
	}
	channels, err := s.ActiveChannels(ctx)
	if err != nil || channels != nil {
		t.Fatalf("nop store lists nothing, got %v, %v", channels, err)
	}
}
