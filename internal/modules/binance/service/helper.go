package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const maxErrBody = 500

type endpoint string

const (
	epExchangeInfo endpoint = "exchangeInfo"
	epTicker24h    endpoint = "ticker/24hr"
	epKlines       endpoint = "klines"
)

// isFuturesBase — USDⓈ-M фьючерсы: хост fapi.* или путь с /fapi.
func isFuturesBase(base string) bool {
	b := strings.ToLower(base)
	return strings.Contains(b, "fapi.") || strings.Contains(b, "/fapi")
}

// endpointURL: https://fapi.binance.com -> .../fapi/v1/klines, https://api.binance.com -> .../api/v3/klines.
func endpointURL(base string, ep endpoint) string {
	b := strings.TrimRight(base, "/")
	if isFuturesBase(base) {
		b = strings.TrimSuffix(b, "/fapi")
		return b + "/fapi/v1/" + string(ep)
	}
	return b + "/api/v3/" + string(ep)
}

func withQuery(u string, q url.Values) string {
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// toFloat приводит поле строки к числу. Непарсящееся значение — NaN.
func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case int64:
		return float64(x)
	default:
		return math.NaN()
	}
}

func toMillis(v any) (int64, bool) {
	f := toFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
