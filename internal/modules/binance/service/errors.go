package service

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrRateLimited — Binance отвечал 418/429 до исчерпания попыток.
	ErrRateLimited = errors.New("binance: rate limited")
	// ErrMalformedSeries — свечи не по возрастанию, дубли времени или битые строки.
	ErrMalformedSeries = errors.New("binance: malformed kline series")
)

// FetchError — запрос не удался после всех попыток.
type FetchError struct {
	URL         string
	Status      int // 0, если ответа не было
	Body        string
	Attempts    int
	RateLimited bool
	Err         error // последняя сетевая ошибка или ошибка декодирования
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("GET %s failed after %d attempts", e.URL, e.Attempts)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status=%d)", e.Status)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(" body=%q", e.Body)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is позволяет проверять errors.Is(err, ErrRateLimited).
func (e *FetchError) Is(target error) bool {
	return target == ErrRateLimited && e.RateLimited
}
