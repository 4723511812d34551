package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"signal_bot/internal/chart"
	binance "signal_bot/internal/modules/binance/service"
	"signal_bot/internal/modules/config"
	hsvc "signal_bot/internal/modules/health/service"
	tgsvc "signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
)

var (
	configPath string
	timeframes string
	topSymbols int
	minScore   int
	chartDir   string
	lastSymbol string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "scan",
		Short: "Один цикл сканирования рынка без Telegram",
		Long: `scan берёт топ USDT-пар Binance, оценивает их на заданных таймфреймах
и печатает лучший сигнал в stdout. График сохраняется, если задан --chart-dir.`,
		SilenceUsage: true,
		RunE:         runScan,
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML с настройками (по умолчанию configs/values_local.yaml, если есть)")
	f.StringVarP(&timeframes, "timeframes", "t", "", "таймфреймы через запятую, например 5m,15m")
	f.IntVarP(&topSymbols, "top", "n", 0, "сколько символов брать из топа по объёму")
	f.IntVar(&minScore, "min-score", -1, "минимальный score сигнала")
	f.StringVar(&chartDir, "chart-dir", "", "куда сохранять PNG графика")
	f.StringVar(&lastSymbol, "skip", "", "символ, который не повторять")
	f.StringVar(&logLevel, "log-level", "warn", "уровень логов: debug|info|warn|error")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(logLevel); err != nil {
		return err
	}
	defer logger.Sync()
	logger.SetServiceName("signal_scan")

	path, required := configPath, configPath != ""
	if path == "" {
		path = "configs/values_local.yaml"
	}
	cfg, err := config.LoadOffline(path, required)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var render runner.ChartRenderer
	if chartDir != "" {
		render = chart.Render
	}

	cycle := runner.NewCycle(
		binance.NewClient(cfg),
		strategy.NewEvaluator(strategy.ParamsFromBudget(cfg.Budget())),
		render,
		tgsvc.FormatSignal,
		runner.SettingsFromConfig(cfg, cfg.Budget()),
		nil,
		hsvc.NewState(),
	)

	next := cycle.Run(ctx, runner.JobState{
		Target:     "stdout",
		LastSymbol: strings.ToUpper(lastSymbol),
		Notifier:   notify.NewStdout(cmd.OutOrStdout(), chartDir),
	})
	if next.LastOutcome == runner.OutcomeError || next.LastOutcome == runner.OutcomePanic {
		return errors.Errorf("scan finished with %s", next.LastOutcome)
	}
	return nil
}

func applyFlags(cfg *config.Config) {
	if timeframes != "" {
		if tfs := config.NormTimeframes(strings.Split(timeframes, ",")); len(tfs) > 0 {
			cfg.Scanner.Timeframes = tfs
		}
	}
	if topSymbols > 0 {
		cfg.Scanner.TopSymbols = topSymbols
	}
	if minScore >= 0 {
		cfg.Scanner.MinScore = minScore
	}
}
