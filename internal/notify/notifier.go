package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// Stdout — нотифайер для разовых прогонов из консоли: печатает сообщения
// в writer, графики сохраняет в ChartDir (пусто — графики пропускаются).
type Stdout struct {
	mu       sync.Mutex
	w        io.Writer
	chartDir string
	now      func() time.Time
}

func NewStdout(w io.Writer, chartDir string) *Stdout {
	return &Stdout{w: w, chartDir: chartDir, now: time.Now}
}

func (s *Stdout) Send(_ context.Context, target models.ChatTarget, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "[%s]\n%s\n\n", target, text)
	return errors.Wrap(err, "write message")
}

// SendPhoto пишет PNG на диск и печатает подпись со ссылкой на файл.
// Без ChartDir возвращает ошибку, и цикл откатится на текстовое сообщение.
func (s *Stdout) SendPhoto(ctx context.Context, target models.ChatTarget, png []byte, caption string) error {
	if s.chartDir == "" {
		return errors.New("chart dir is not set")
	}
	if err := os.MkdirAll(s.chartDir, 0o755); err != nil {
		return errors.Wrap(err, "create chart dir")
	}

	name := fmt.Sprintf("%s_%s.png", chartPrefix(caption), s.now().UTC().Format("20060102T150405"))
	path := filepath.Join(s.chartDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return s.Send(ctx, target, caption+"\nГрафик: "+path)
}

// chartPrefix — символ и таймфрейм из заголовка карточки, иначе "signal".
func chartPrefix(caption string) string {
	header, _, _ := strings.Cut(caption, "\n")
	fields := strings.Fields(header)
	for i, f := range fields {
		if strings.HasSuffix(f, "USDT") && i+1 < len(fields) {
			tf := strings.Trim(fields[i+1], "()")
			return f + "_" + tf
		}
	}
	return "signal"
}
