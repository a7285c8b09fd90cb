package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"oilwatcher/internal/config"
	"oilwatcher/internal/storage"
)

func newTestApp(url, path string) *App {
	cfg := &config.Config{
		API:         config.APIConfig{URL: url, RequestTimeout: time.Second, UserAgent: "test"},
		Storage:     config.StorageConfig{Path: path, RetentionDays: 365},
		Commodities: config.CommoditiesConfig{Relevant: []string{"BRENT_CRUDE_USD", "WTI_USD", "HEATING_OIL_USD", "DIESEL_USD"}},
		Alerting:    config.AlertingConfig{ThresholdPct: 5.0},
	}
	return NewApp(cfg, zerolog.Nop())
}

func priceServer(t *testing.T, prices []map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"prices": prices},
		})
	}))
}

func seedHistory(t *testing.T, path string, snapshot storage.Snapshot) {
	t.Helper()
	history := storage.NewHistory()
	history.AppendSnapshot(snapshot, 365)
	if err := storage.NewFileStore(path, zerolog.Nop()).Save(history); err != nil {
		t.Fatalf("预置历史失败: %v", err)
	}
}

func TestTrackFirstRun(t *testing.T) {
	srv := priceServer(t, []map[string]any{
		{"code": "BRENT_CRUDE_USD", "name": "Brent Crude", "price": 80.0},
	})
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data", "oil_prices_history.json")
	a := newTestApp(srv.URL, path)

	alerts, err := a.Track(context.Background())
	if err != nil {
		t.Fatalf("首轮运行不应报错: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("没有基线不应产生告警: %+v", alerts)
	}

	history, err := storage.NewFileStore(path, zerolog.Nop()).Load()
	if err != nil {
		t.Fatalf("历史文件应已写出: %v", err)
	}
	if len(history.History) != 1 || len(history.Alerts) != 0 {
		t.Fatalf("历史内容不正确: %+v", history)
	}
}

func TestTrackAlertScenario(t *testing.T) {
	srv := priceServer(t, []map[string]any{
		{"code": "BRENT_CRUDE_USD", "name": "Brent Crude", "price": 84.5},
	})
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.json")
	seedHistory(t, path, storage.Snapshot{
		Date:   time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		Prices: []storage.PriceQuote{{Code: "BRENT_CRUDE_USD", Name: "Brent Crude", Price: 80}},
	})

	a := newTestApp(srv.URL, path)
	alerts, err := a.Track(context.Background())
	if err != nil {
		t.Fatalf("运行不应报错: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("+5.625%% 应产生一条告警: %+v", alerts)
	}
	if alerts[0].ChangePercent != 5.63 {
		t.Fatalf("change_percent 应为 5.63: %v", alerts[0].ChangePercent)
	}

	history, err := storage.NewFileStore(path, zerolog.Nop()).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(history.History) != 2 {
		t.Fatalf("应追加新快照: %d", len(history.History))
	}
	if len(history.Alerts) != 1 {
		t.Fatalf("告警应被持久化: %+v", history.Alerts)
	}
}

func TestTrackBelowThreshold(t *testing.T) {
	srv := priceServer(t, []map[string]any{
		{"code": "WTI_USD", "name": "WTI", "price": 71.0},
	})
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.json")
	seedHistory(t, path, storage.Snapshot{
		Date:   time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		Prices: []storage.PriceQuote{{Code: "WTI_USD", Name: "WTI", Price: 70}},
	})

	a := newTestApp(srv.URL, path)
	alerts, err := a.Track(context.Background())
	if err != nil {
		t.Fatalf("运行不应报错: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("+1.43%% 不应产生告警: %+v", alerts)
	}

	history, err := storage.NewFileStore(path, zerolog.Nop()).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(history.History) != 2 || len(history.Alerts) != 0 {
		t.Fatalf("快照应追加且无告警: %+v", history)
	}
}

func TestTrackFetchFailureLeavesHistoryUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "error"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.json")
	a := newTestApp(srv.URL, path)

	if _, err := a.Track(context.Background()); err == nil {
		t.Fatal("status=error 时运行应失败")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("fetch 失败时不应创建历史文件")
	}
}

func TestTrackMalformedHistoryAborts(t *testing.T) {
	srv := priceServer(t, []map[string]any{
		{"code": "WTI_USD", "name": "WTI", "price": 70.0},
	})
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(srv.URL, path)
	if _, err := a.Track(context.Background()); err == nil {
		t.Fatal("损坏的历史文件应使运行失败")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "{broken" {
		t.Fatalf("失败时不应改写历史文件: %s", raw)
	}
}

func TestTrackFiltersIrrelevantCodes(t *testing.T) {
	srv := priceServer(t, []map[string]any{
		{"code": "BRENT_CRUDE_USD", "name": "Brent Crude", "price": 80.0},
		{"code": "GOLD_USD", "name": "Gold", "price": 2400.0},
	})
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.json")
	a := newTestApp(srv.URL, path)

	if _, err := a.Track(context.Background()); err != nil {
		t.Fatal(err)
	}

	history, err := storage.NewFileStore(path, zerolog.Nop()).Load()
	if err != nil {
		t.Fatal(err)
	}
	last, ok := history.LastSnapshot()
	if !ok || len(last.Prices) != 1 || last.Prices[0].Code != "BRENT_CRUDE_USD" {
		t.Fatalf("快照应只包含相关商品: %+v", last)
	}
}

func TestTrackRetentionCap(t *testing.T) {
	srv := priceServer(t, []map[string]any{
		{"code": "WTI_USD", "name": "WTI", "price": 70.0},
	})
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.json")
	history := storage.NewHistory()
	for i := 0; i < 365; i++ {
		history.AppendSnapshot(storage.Snapshot{
			Date:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Prices: []storage.PriceQuote{{Code: "WTI_USD", Name: "WTI", Price: 70}},
		}, 365)
	}
	if err := storage.NewFileStore(path, zerolog.Nop()).Save(history); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(srv.URL, path)
	if _, err := a.Track(context.Background()); err != nil {
		t.Fatal(err)
	}

	loaded, err := storage.NewFileStore(path, zerolog.Nop()).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.History) != 365 {
		t.Fatalf("持久化后历史应不超过 365 条, 实际 %d", len(loaded.History))
	}
}
