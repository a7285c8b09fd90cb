package alerting

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"oilwatcher/internal/storage"
)

var dec100 = decimal.NewFromInt(100)

// Detector flags commodities whose price moved beyond the threshold since the
// most recent recorded snapshot.
type Detector struct {
	threshold decimal.Decimal
	relevant  storage.CodeSet
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDetector 构造阈值告警检测器。
func NewDetector(thresholdPct float64, relevant storage.CodeSet, logger zerolog.Logger) *Detector {
	return &Detector{
		threshold: decimal.NewFromFloat(thresholdPct),
		relevant:  relevant,
		logger:    logger.With().Str("component", "detector").Logger(),
		now:       time.Now,
	}
}

// Detect compares current quotes against the last snapshot in history only.
// An empty history, a code with no previous price, and a zero or negative
// previous price all produce no alert and no error. The threshold is
// inclusive: a move of exactly the threshold percentage alerts.
func (d *Detector) Detect(current []storage.PriceQuote, history *storage.History) []storage.Alert {
	if history == nil {
		return nil
	}
	last, ok := history.LastSnapshot()
	if !ok {
		return nil
	}

	previous := make(map[string]float64, len(last.Prices))
	for _, p := range last.Prices {
		previous[p.Code] = p.Price
	}

	var alerts []storage.Alert
	for _, quote := range current {
		if !d.relevant.Contains(quote.Code) {
			continue
		}
		prev, known := previous[quote.Code]
		if !known || prev <= 0 {
			continue
		}

		prevDec := decimal.NewFromFloat(prev)
		change := decimal.NewFromFloat(quote.Price).Sub(prevDec).Div(prevDec).Mul(dec100)
		if change.Abs().LessThan(d.threshold) {
			continue
		}

		rounded := change.Round(2)
		d.logger.Info().
			Str("code", quote.Code).
			Str("change_pct", rounded.String()).
			Msg("threshold breach detected")

		alerts = append(alerts, storage.Alert{
			Date:          d.now(),
			Commodity:     quote.Name,
			Code:          quote.Code,
			PreviousPrice: prev,
			CurrentPrice:  quote.Price,
			ChangePercent: rounded.InexactFloat64(),
			Message:       renderMessage(quote.Name, prev, quote.Price, change),
		})
	}
	return alerts
}

func renderMessage(name string, previous, current float64, change decimal.Decimal) string {
	direction := "📉"
	sign := ""
	if change.Sign() > 0 {
		direction = "📈"
		sign = "+"
	}
	return fmt.Sprintf("%s %s: %.2f → %.2f USD (%s%s%%)", direction, name, previous, current, sign, change.Round(1).StringFixed(1))
}
