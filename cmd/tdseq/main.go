package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/tdsequential/internal/api/twelvedata"
	"github.com/Alias1177/tdsequential/internal/config"
	"github.com/Alias1177/tdsequential/internal/database"
	"github.com/Alias1177/tdsequential/internal/frame"
	"github.com/Alias1177/tdsequential/internal/notify"
	"github.com/Alias1177/tdsequential/internal/sequential"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting TD Sequential")
	printConfig(cfg)

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("TD Sequential failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// 3. Load price data
	input, err := loadFrame(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Int("bars", input.Len()).Msg("Price data loaded")

	// 4. Classify
	out, res, err := sequential.Calculate(input, optionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("calculating TD Sequential: %w", err)
	}

	if cfg.OutputFile != "" {
		if err := writeFrame(cfg.OutputFile, out, cfg.IndexColumn); err != nil {
			return err
		}
		log.Info().Str("file", cfg.OutputFile).Msg("Counts written")
	}

	sig, err := sequential.LastSignal(out, cfg.SetupLength, cfg.CountdownLength)
	if err != nil {
		return fmt.Errorf("querying last signal: %w", err)
	}

	printSummary(out, res, sig)

	// 5. Open the optional sinks
	var store signalStore
	if cfg.DB.Enabled() {
		db, err := database.New(ctx, connectionParams(cfg))
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()
		store = db
	}

	// 6. Notify and persist only when the signal has not been delivered before
	if sig != nil {
		var sender alertSender
		if cfg.TelegramEnabled() {
			n, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
			if err != nil {
				return err
			}
			sender = n
		}

		isNew, err := deliverSignal(ctx, store, sender, storedSignal(cfg, sig), buildAlert(cfg, out, sig))
		if err != nil {
			return err
		}
		if !isNew {
			log.Info().Str("signal", sig.Name()).Msg("Signal already reported")
		}
	}

	if store != nil {
		return printHistory(ctx, store, cfg.Symbol, cfg.Interval)
	}
	return nil
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		os.Exit(0)
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	source := "twelvedata"
	if cfg.InputFile != "" {
		source = cfg.InputFile
	}
	log.Info().
		Str("Source", source).
		Str("Symbol", cfg.Symbol).
		Str("Interval", cfg.Interval).
		Int("CandleCount", cfg.CandleCount).
		Int("SetupLength", cfg.SetupLength).
		Int("CountdownLength", cfg.CountdownLength).
		Bool("ApplyPerfection", cfg.ApplyPerfection).
		Bool("TDSTLevels", cfg.TDSTLevels).
		Bool("Database", cfg.DB.Enabled()).
		Bool("Telegram", cfg.TelegramEnabled()).
		Msg("Configuration loaded")
}

func optionsFromConfig(cfg *config.Config) sequential.Options {
	return sequential.Options{
		Columns: sequential.Columns{
			Open:  cfg.OpenColumn,
			High:  cfg.HighColumn,
			Low:   cfg.LowColumn,
			Close: cfg.CloseColumn,
		},
		SetupLength:     cfg.SetupLength,
		CountdownLength: cfg.CountdownLength,
		ApplyPerfection: cfg.ApplyPerfection,
		Levels:          cfg.TDSTLevels,
	}
}

// loadFrame reads the CSV input file when one is set, otherwise fetches candles
func loadFrame(ctx context.Context, cfg *config.Config) (*frame.Frame, error) {
	if cfg.InputFile != "" {
		file, err := os.Open(cfg.InputFile)
		if err != nil {
			return nil, fmt.Errorf("opening input file: %w", err)
		}
		defer file.Close()

		f, err := frame.ReadCSV(file, cfg.IndexColumn)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", cfg.InputFile, err)
		}
		return f, nil
	}

	if cfg.TwelveAPIKey == "" {
		return nil, errors.New("either INPUT_FILE or TWELVE_API_KEY must be set")
	}

	client := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})

	log.Info().Msg("Fetching latest market data...")
	candles, err := client.GetCandles(ctx, cfg.Symbol, cfg.Interval, cfg.CandleCount)
	if err != nil {
		return nil, fmt.Errorf("fetching candles: %w", err)
	}
	return frame.FromCandles(candles), nil
}

func writeFrame(path string, f *frame.Frame, indexColumn string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := frame.WriteCSV(file, f, indexColumn); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// signalStore is the part of database.DB a run needs
type signalStore interface {
	LatestSignal(ctx context.Context, symbol, interval string) (*database.StoredSignal, error)
	SaveSignal(ctx context.Context, s database.StoredSignal) (bool, error)
	ListSignals(ctx context.Context, symbol, interval string, limit int) ([]database.StoredSignal, error)
}

type alertSender interface {
	Notify(a notify.Alert) error
}

// historyLimit is how many stored signals the summary lists
const historyLimit = 5

func connectionParams(cfg *config.Config) database.ConnectionParams {
	return database.ConnectionParams{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
}

func storedSignal(cfg *config.Config, sig *sequential.Signal) database.StoredSignal {
	return database.StoredSignal{
		Symbol:    cfg.Symbol,
		Interval:  cfg.Interval,
		Bar:       sig.Bar,
		BarLabel:  sig.Label,
		Kind:      sig.Kind.String(),
		Direction: sig.Direction.String(),
	}
}

// deliverSignal sends the alert unless the store already holds the signal and
// stores the signal only after the send succeeded, so a failed send is retried
// on the next run. A nil store treats every signal as new; a nil sender only
// records it. It reports whether the signal was new.
func deliverSignal(ctx context.Context, store signalStore, sender alertSender, s database.StoredSignal, alert notify.Alert) (bool, error) {
	if store != nil {
		latest, err := store.LatestSignal(ctx, s.Symbol, s.Interval)
		if err != nil {
			return false, fmt.Errorf("loading latest signal: %w", err)
		}
		if latest != nil && latest.SameEvent(s) {
			return false, nil
		}
	}

	if sender != nil {
		if err := sender.Notify(alert); err != nil {
			return false, err
		}
	}

	if store != nil {
		if _, err := store.SaveSignal(ctx, s); err != nil {
			return false, fmt.Errorf("saving signal: %w", err)
		}
	}
	return true, nil
}

// printHistory lists the most recent stored signals of the series
func printHistory(ctx context.Context, store signalStore, symbol, interval string) error {
	signals, err := store.ListSignals(ctx, symbol, interval, historyLimit)
	if err != nil {
		return fmt.Errorf("listing signals: %w", err)
	}

	fmt.Println("\n=== STORED SIGNALS ===")
	if len(signals) == 0 {
		fmt.Println("None")
		return nil
	}
	for _, s := range signals {
		fmt.Printf("%s  %s %s at %s\n", s.CreatedAt.Format(time.RFC3339), s.Direction, s.Kind, s.BarLabel)
	}
	return nil
}

func buildAlert(cfg *config.Config, out *frame.Frame, sig *sequential.Signal) notify.Alert {
	alert := notify.Alert{
		Symbol:   cfg.Symbol,
		Interval: cfg.Interval,
		Signal:   *sig,
		Close:    math.NaN(),
		TDSTBuy:  math.NaN(),
		TDSTSell: math.NaN(),
	}
	if closes, ok := out.Column(cfg.CloseColumn); ok {
		alert.Close = closes[sig.Bar]
	}
	if buy, ok := out.Column(sequential.ColTDSTBuy); ok {
		alert.TDSTBuy = buy[sig.Bar]
	}
	if sell, ok := out.Column(sequential.ColTDSTSell); ok {
		alert.TDSTSell = sell[sig.Bar]
	}
	return alert
}

// printSummary outputs the final state of the series
func printSummary(out *frame.Frame, res *sequential.Result, sig *sequential.Signal) {
	fmt.Println("\n=== TD SEQUENTIAL ===")
	fmt.Printf("Bars: %d\n", out.Len())
	fmt.Printf("Completed setups: %d buy, %d sell\n",
		len(res.CompletedBars(sequential.Buy)), len(res.CompletedBars(sequential.Sell)))
	fmt.Printf("Perfected setups: %d, perfected countdowns: %d\n",
		len(res.PerfectedSetups), len(res.PerfectedCountdowns))

	if n := out.Len(); n > 0 {
		last := n - 1
		fmt.Printf("Last bar %s: setup %d/%d, countdown %d/%d\n",
			out.Label(last),
			res.BuySetup[last], res.SellSetup[last],
			res.BuyCountdown[last], res.SellCountdown[last])
		if res.TDSTBuy != nil {
			fmt.Printf("TDST support: %s, resistance: %s\n",
				formatLevel(res.TDSTBuy[last]), formatLevel(res.TDSTSell[last]))
		}
	}

	if sig == nil {
		fmt.Println("No completed setup or countdown")
		return
	}
	fmt.Println(sig.String())
}

func formatLevel(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.5f", v)
}
