package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// Klines отдаёт свечи по возрастанию времени.
// Строка Binance: [openTime, open, high, low, close, volume, closeTime, ...].
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) (models.CandleSeries, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "binance.klines")
	defer span.Finish()
	span.SetTag("symbol", symbol)
	span.SetTag("interval", interval)

	if limit <= 0 {
		limit = 300
	}
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	var rows [][]any
	if err := c.getJSON(ctx, epKlines, q, &rows); err != nil {
		return nil, errors.Wrapf(err, "klines %s %s", symbol, interval)
	}

	series, err := parseKlines(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "klines %s %s", symbol, interval)
	}
	return series, nil
}

func parseKlines(rows [][]any) (models.CandleSeries, error) {
	out := make(models.CandleSeries, 0, len(rows))
	for i, row := range rows {
		if len(row) < 7 {
			return nil, errors.Wrapf(ErrMalformedSeries, "row %d has %d fields", i, len(row))
		}
		openMs, ok1 := toMillis(row[0])
		closeMs, ok2 := toMillis(row[6])
		if !ok1 || !ok2 {
			return nil, errors.Wrapf(ErrMalformedSeries, "row %d: bad timestamps", i)
		}

		out = append(out, models.Candle{
			OpenTime:  time.UnixMilli(openMs).UTC(),
			CloseTime: time.UnixMilli(closeMs).UTC(),
			Open:      toFloat(row[1]),
			High:      toFloat(row[2]),
			Low:       toFloat(row[3]),
			Close:     toFloat(row[4]),
			Volume:    toFloat(row[5]),
		})
	}

	if !out.Ordered() {
		return nil, errors.Wrap(ErrMalformedSeries, "open times not strictly ascending")
	}
	return out, nil
}
