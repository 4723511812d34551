package runner

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"signal_bot/internal/models"
)

type fakeSource struct {
	symbols []string
	symErr  error
	series  map[string]models.CandleSeries
	errs    map[string]error
	panicOn string

	mu    sync.Mutex
	calls []string
}

func (f *fakeSource) TopUSDTSymbols(_ context.Context, n int) ([]string, error) {
	if f.symErr != nil {
		return nil, f.symErr
	}
	if n < len(f.symbols) {
		return f.symbols[:n], nil
	}
	return f.symbols, nil
}

func (f *fakeSource) Klines(_ context.Context, symbol, interval string, _ int) (models.CandleSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol+"/"+interval)
	f.mu.Unlock()

	if symbol == f.panicOn {
		panic("boom in " + symbol)
	}
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.series[symbol], nil
}

type sent struct {
	target  models.ChatTarget
	text    string
	isPhoto bool
}

type fakeNotifier struct {
	photoErr error

	mu   sync.Mutex
	msgs []sent
}

func (n *fakeNotifier) Send(_ context.Context, target models.ChatTarget, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, sent{target: target, text: text})
	return nil
}

func (n *fakeNotifier) SendPhoto(_ context.Context, target models.ChatTarget, _ []byte, caption string) error {
	if n.photoErr != nil {
		return n.photoErr
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, sent{target: target, text: caption, isPhoto: true})
	return nil
}

func (n *fakeNotifier) all() []sent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sent(nil), n.msgs...)
}

type memStore struct {
	mu   sync.Mutex
	subs map[models.ChatTarget]models.Subscription

	// hold, если задан, держит Save до закрытия канала (медленная БД)
	hold chan struct{}
}

func newMemStore(subs ...models.Subscription) *memStore {
	s := &memStore{subs: make(map[models.ChatTarget]models.Subscription)}
	for _, sub := range subs {
		s.subs[sub.Target] = sub
	}
	return s
}

func (s *memStore) Save(_ context.Context, sub models.Subscription) error {
	if s.hold != nil {
		<-s.hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.Target] = sub
	return nil
}

func (s *memStore) Delete(_ context.Context, target models.ChatTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, target)
	return nil
}

func (s *memStore) List(_ context.Context) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (s *memStore) get(target models.ChatTarget) (models.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[target]
	return sub, ok
}

func (s *memStore) has(target models.ChatTarget) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[target]
	return ok
}

// rising — рост на 1% за бар; spike добавляет всплеск объёма на последнем баре.
// Со всплеском балл 4, без него 3.
func rising(n int, spike bool) models.CandleSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make(models.CandleSeries, n)
	for i := range out {
		c := 100 * math.Pow(1.01, float64(i))
		out[i] = models.Candle{
			OpenTime:  start.Add(time.Duration(i) * 15 * time.Minute),
			CloseTime: start.Add(time.Duration(i+1)*15*time.Minute - time.Millisecond),
			Open:      c,
			High:      c * 1.002,
			Low:       c * 0.998,
			Close:     c,
			Volume:    90,
		}
	}
	if spike {
		out[n-1].Volume = 190
	}
	return out
}

func testFormat(s models.Signal) string {
	return fmt.Sprintf("%s %s %s score=%d", s.Symbol, s.Timeframe, s.Side, s.Score)
}

func okRender(string, string, models.CandleSeries, models.Signal) ([]byte, error) {
	return []byte("png"), nil
}
