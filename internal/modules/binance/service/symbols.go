package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type exchangeInfo struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		Status     string `json:"status"`
		QuoteAsset string `json:"quoteAsset"`
	} `json:"symbols"`
}

type ticker24h struct {
	Symbol      string `json:"symbol"`
	QuoteVolume any    `json:"quoteVolume"`
}

// TopUSDTSymbols — n торгуемых USDT-пар с наибольшим оборотом за 24 часа.
func (c *Client) TopUSDTSymbols(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	var info exchangeInfo
	if err := c.getJSON(ctx, epExchangeInfo, nil, &info); err != nil {
		return nil, errors.Wrap(err, "exchange info")
	}
	var tickers []ticker24h
	if err := c.getJSON(ctx, epTicker24h, nil, &tickers); err != nil {
		return nil, errors.Wrap(err, "24h tickers")
	}

	return rankByQuoteVolume(info, tickers, n), nil
}

func rankByQuoteVolume(info exchangeInfo, tickers []ticker24h, n int) []string {
	trading := make(map[string]struct{}, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status == "TRADING" && s.QuoteAsset == "USDT" {
			trading[s.Symbol] = struct{}{}
		}
	}

	type rec struct {
		sym string
		qv  float64
	}
	arr := make([]rec, 0, len(tickers))
	for _, t := range tickers {
		if _, ok := trading[t.Symbol]; !ok || !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		qv := toFloat(t.QuoteVolume)
		if math.IsNaN(qv) {
			continue
		}
		arr = append(arr, rec{sym: t.Symbol, qv: qv})
	}

	sort.SliceStable(arr, func(i, j int) bool { return arr[i].qv > arr[j].qv })
	if n > len(arr) {
		n = len(arr)
	}
	res := make([]string, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, arr[i].sym)
	}
	return res
}
