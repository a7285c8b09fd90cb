package app

import (
	"errors"
	"fmt"
	"time"

	"oilwatcher/internal/alerting"
	"oilwatcher/internal/storage"
)

// SimulateAlert 通过给定的前后价格模拟一次告警检测，不访问网络也不写历史。
func (a *App) SimulateAlert(opts SimulateOptions) error {
	if opts.Code == "" {
		return errors.New("--code 必须提供")
	}
	if opts.Previous <= 0 || opts.Current <= 0 {
		return errors.New("--previous 与 --current 必须大于 0")
	}

	name := opts.Name
	if name == "" {
		name = opts.Code
	}

	history := storage.NewHistory()
	history.AppendSnapshot(storage.Snapshot{
		Date:   time.Now().Add(-24 * time.Hour),
		Prices: []storage.PriceQuote{{Code: opts.Code, Name: name, Price: opts.Previous}},
	}, a.Config.Storage.RetentionDays)

	detector := alerting.NewDetector(a.Config.Alerting.ThresholdPct, storage.NewCodeSet([]string{opts.Code}), a.Logger)
	alerts := detector.Detect([]storage.PriceQuote{{Code: opts.Code, Name: name, Price: opts.Current}}, history)

	if len(alerts) == 0 {
		fmt.Printf("no alert: change below %.1f%% threshold\n", a.Config.Alerting.ThresholdPct)
		return nil
	}
	for _, alert := range alerts {
		fmt.Println(alert.Message)
	}
	return nil
}
