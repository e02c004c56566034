package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/xrpstat/gwstat/internal/report"
)

func testCache(t *testing.T) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, time.Minute), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	resp := report.Response{
		Account:     "rGateway",
		LedgerIndex: 700,
		Obligations: map[string]string{"USD": "50"},
	}
	c.Set(ctx, "gwbal:700:rGateway:", resp)

	got, ok := c.Get(ctx, "gwbal:700:rGateway:")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Account != resp.Account || got.Obligations["USD"] != "50" {
		t.Errorf("got %+v", got)
	}
}

func TestGetMiss(t *testing.T) {
	c, _ := testCache(t)
	if _, ok := c.Get(context.Background(), "absent"); ok {
		t.Error("expected miss")
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", report.Response{Account: "rGateway"})
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry should have expired")
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := testCache(t)
	mr.Set("k", "{not json")

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("corrupt entry should read as a miss")
	}
}
