package runner

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"signal_bot/internal/models"
	hsvc "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
)

const (
	storeTimeout = 5 * time.Second
	storeQueue   = 64
)

// CycleRunner — то, что Manager крутит по расписанию (*Cycle в проде).
type CycleRunner interface {
	Run(ctx context.Context, job JobState) JobState
}

// Manager держит по одной горутине на чат. Циклы одного чата не пересекаются,
// а LastSymbol живёт только внутри его горутины.
type Manager struct {
	cycle CycleRunner
	store SubscriptionStore
	delay func() time.Duration

	metrics *hsvc.Metrics
	state   *hsvc.State

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	jobs    map[models.ChatTarget]*job
	stopped bool

	// записи в хранилище идут по очереди в отдельной горутине,
	// чтобы медленная БД не держала команды бота
	writes     chan func(ctx context.Context) error
	writesDone chan struct{}
}

type job struct {
	cancel context.CancelFunc
	quiet  bool
	owner  models.ChatTarget
}

func NewManager(cycle *Cycle, store SubscriptionStore, settings Settings, metrics *hsvc.Metrics, state *hsvc.State) *Manager {
	return newManager(cycle, store, UniformDelay(settings.IntervalMin, settings.IntervalMax), metrics, state)
}

func newManager(cycle CycleRunner, store SubscriptionStore, delay func() time.Duration, metrics *hsvc.Metrics, state *hsvc.State) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cycle:      cycle,
		store:      store,
		delay:      delay,
		metrics:    metrics,
		state:      state,
		ctx:        ctx,
		cancel:     cancel,
		jobs:       make(map[models.ChatTarget]*job),
		writes:     make(chan func(ctx context.Context) error, storeQueue),
		writesDone: make(chan struct{}),
	}
	go m.storeWriter()
	return m
}

// UniformDelay — пауза из целых секунд [lo, hi] включительно; доли секунды отбрасываются.
func UniformDelay(lo, hi time.Duration) func() time.Duration {
	from, to := int(lo/time.Second), int(hi/time.Second)
	if to < from {
		to = from
	}
	return func() time.Duration {
		return time.Duration(from+rand.IntN(to-from+1)) * time.Second
	}
}

// Schedule запускает расписание для sub.Target. false — уже запущено или менеджер остановлен.
// Подписка сохраняется асинхронно.
func (m *Manager) Schedule(sub models.Subscription, n Notifier) bool {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	return m.start(sub, n, true)
}

// Cancel останавливает расписание target. Идущий цикл прерывается через контекст.
func (m *Manager) Cancel(target models.ChatTarget) bool {
	m.mu.Lock()
	j, ok := m.jobs[target]
	if ok {
		delete(m.jobs, target)
		m.persistLocked(func(ctx context.Context) error {
			return m.store.Delete(ctx, target)
		})
	}
	active := len(m.jobs)
	m.mu.Unlock()

	if !ok {
		return false
	}
	j.cancel()
	m.observeActive(active)
	logger.Info("[MANAGER] schedule for %s cancelled", target)
	return true
}

// Active — цели с живым расписанием, по возрастанию.
func (m *Manager) Active() []models.ChatTarget {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.ChatTarget, 0, len(m.jobs))
	for t := range m.jobs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Owner — чат, запустивший расписание target. Пусто у автопостинга из конфига
// и у подписок, сохранённых без владельца.
func (m *Manager) Owner(target models.ChatTarget) (owner models.ChatTarget, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[target]
	if !ok {
		return "", false
	}
	return j.owner, true
}

// IsQuiet — запущено ли расписание target и в тихом ли режиме.
func (m *Manager) IsQuiet(target models.ChatTarget) (quiet, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[target]
	if !ok {
		return false, false
	}
	return j.quiet, true
}

// Restore поднимает сохранённые подписки и автопостинг в канал (всегда тихий).
// Канал из конфига не сохраняем: он берётся из конфига при каждом старте.
func (m *Manager) Restore(ctx context.Context, n Notifier, channelID string) error {
	subs, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range subs {
		if m.start(s, n, false) {
			logger.Info("[MANAGER] restored schedule for %s (quiet=%v owner=%q)", s.Target, s.Quiet, s.Owner)
		}
	}
	if channelID != "" && m.start(models.Subscription{Target: models.ChatTarget(channelID), Quiet: true}, n, false) {
		logger.Info("[MANAGER] auto-post enabled for %s", channelID)
	}
	return nil
}

// Stop гасит все расписания, дописывает очередь в хранилище и ждёт горутины.
// Подписки в хранилище остаются. Повторный вызов ничего не делает.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.jobs = make(map[models.ChatTarget]*job)
	close(m.writes)
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	<-m.writesDone
	m.observeActive(0)
}

// start поднимает горутину job; save — поставить подписку в очередь на запись.
func (m *Manager) start(sub models.Subscription, n Notifier, save bool) bool {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return false
	}
	if _, exists := m.jobs[sub.Target]; exists {
		m.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.jobs[sub.Target] = &job{cancel: cancel, quiet: sub.Quiet, owner: sub.Owner}
	if save {
		m.persistLocked(func(ctx context.Context) error {
			return m.store.Save(ctx, sub)
		})
	}
	active := len(m.jobs)
	m.wg.Add(1)
	m.mu.Unlock()

	m.observeActive(active)
	go m.loop(ctx, JobState{Target: sub.Target, Quiet: sub.Quiet, Notifier: n})
	return true
}

// loop: пауза, цикл, снова пауза. Выходит только по отмене контекста.
func (m *Manager) loop(ctx context.Context, state JobState) {
	defer m.wg.Done()

	for {
		wait := m.delay()
		logger.Debug("[MANAGER] next cycle for %s in %s", state.Target, wait)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		state = m.runOnce(ctx, state)
	}
}

func (m *Manager) runOnce(ctx context.Context, state JobState) (next JobState) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[MANAGER] cycle for %s panicked: %v", state.Target, r)
			next = state
		}
	}()
	return m.cycle.Run(ctx, state)
}

// persistLocked ставит запись в очередь под m.mu, поэтому порядок записей
// совпадает с порядком Schedule/Cancel. После Stop очередь закрыта.
func (m *Manager) persistLocked(fn func(ctx context.Context) error) {
	if m.stopped {
		return
	}
	m.writes <- fn
}

func (m *Manager) storeWriter() {
	defer close(m.writesDone)
	for fn := range m.writes {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := fn(ctx); err != nil {
			logger.Error("[MANAGER] subscription store: %v", err)
		}
		cancel()
	}
}

func (m *Manager) observeActive(n int) {
	m.metrics.SetActiveJobs(n)
	if m.state != nil {
		m.state.SetActiveJobs(n)
	}
}
