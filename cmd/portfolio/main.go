package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavelanni/portfolio/internal/console"
	"github.com/pavelanni/portfolio/internal/handler"
	appI18n "github.com/pavelanni/portfolio/internal/i18n"
	"github.com/pavelanni/portfolio/internal/jokes"
	"github.com/pavelanni/portfolio/internal/model"
	"github.com/pavelanni/portfolio/internal/records"
	"github.com/pavelanni/portfolio/internal/resource"
	"github.com/pavelanni/portfolio/internal/store"
)

const (
	jokesFileName   = "randomJokes.txt"
	recordsFileName = "studentMarks.txt"
	resourcesDir    = "resources"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Arithmetic quiz, joke teller and student records manager",
		SilenceUsage: true,
	}
	root.AddCommand(quizCmd(), jokesCmd(), recordsCmd())
	return root
}

func addCommonFlags(f *pflag.FlagSet) {
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func quizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Play the arithmetic quiz",
		RunE:  runQuiz,
	}
	f := cmd.Flags()
	f.String("db", "portfolio.db", "SQLite database for quiz history")
	f.Uint64("seed", 0, "Random seed (0 = random)")
	addCommonFlags(f)

	cmd.AddCommand(quizHistoryCmd())
	return cmd
}

func quizHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished quizzes",
		RunE:  runQuizHistory,
	}
	f := cmd.Flags()
	f.String("db", "portfolio.db", "SQLite database for quiz history")
	f.StringP("difficulty", "d", "", "Only show this difficulty (easy, moderate, advanced)")
	f.IntP("limit", "n", 20, "Maximum results to list (0 = all)")
	f.Bool("json", false, "Print the full history with per-difficulty statistics as JSON")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addCommonFlags(f)
	return cmd
}

func jokesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jokes",
		Short: "Tell random jokes",
		RunE:  runJokes,
	}
	f := cmd.Flags()
	f.String("jokes-file", "", "Jokes file (default: "+jokesFileName+" next to the binary)")
	f.Uint64("seed", 0, "Random seed (0 = random)")
	addCommonFlags(f)
	return cmd
}

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage student marks",
		RunE:  runRecords,
	}
	f := cmd.Flags()
	f.String("records-file", "", "Records file (default: "+recordsFileName+" found in . or "+resourcesDir+"/)")
	addCommonFlags(f)

	cmd.AddCommand(recordsExportCmd())
	return cmd
}

func recordsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export student records with derived marks as JSON",
		RunE:  runRecordsExport,
	}
	f := cmd.Flags()
	f.String("records-file", "", "Records file (default: "+recordsFileName+" found in . or "+resourcesDir+"/)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addCommonFlags(f)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("portfolio")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/portfolio")
	v.AddConfigPath("/etc/portfolio")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// newRNG returns a seeded generator, or nil to let each engine seed itself.
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func newConsole(v *viper.Viper) (*console.Console, error) {
	loc, err := appI18n.New(v.GetString("lang"))
	if err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	return console.New(os.Stdout, loc), nil
}

// runConsole reads commands from stdin until quit, end of input, or an interrupt.
func runConsole(c *console.Console) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Run(ctx, os.Stdin)
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	c, err := newConsole(v)
	if err != nil {
		return err
	}
	h := handler.NewQuiz(c, c.Loop(), db, newRNG(v.GetUint64("seed")))
	handler.Mount(c, h)
	defer h.Session().Stop()

	slog.Info("quiz ready", "db", v.GetString("db"), "lang", v.GetString("lang"))
	return runConsole(c)
}

func runQuizHistory(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if v.GetBool("json") {
		export, err := db.ExportQuizHistory()
		if err != nil {
			return fmt.Errorf("export quiz history: %w", err)
		}
		return writeJSON(v.GetString("output"), export)
	}

	var difficulty model.Difficulty
	if d := v.GetString("difficulty"); d != "" {
		difficulty = model.Difficulty(strings.ToLower(d))
		if _, _, ok := difficulty.Range(); !ok {
			return fmt.Errorf("unknown difficulty %q", d)
		}
	}
	results, err := db.ListQuizResults(difficulty, v.GetInt("limit"))
	if err != nil {
		return fmt.Errorf("list quiz results: %w", err)
	}
	total, err := db.QuizResultCount()
	if err != nil {
		return fmt.Errorf("count quiz results: %w", err)
	}

	c, err := newConsole(v)
	if err != nil {
		return err
	}
	loc := c.Localizer()
	if len(results) == 0 {
		c.Println(loc.T("QuizHistoryEmpty"))
		return nil
	}
	c.Println(loc.Tp("QuizzesPlayed", total))
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			string(r.Difficulty),
			strconv.Itoa(r.Score) + "/" + strconv.Itoa(r.MaxScore),
			strconv.FormatFloat(r.Percentage, 'f', 1, 64),
			r.Rank,
		})
	}
	c.Table([]string{
		loc.T("ColFinished"), loc.T("ColDifficulty"), loc.T("ColScore"), loc.T("ColPercent"), loc.T("ColRank"),
	}, rows)
	return nil
}

func runJokes(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	path, found := resource.Resolve(v.GetString("jokes-file"), jokesFileName)
	if !found {
		slog.Warn("jokes file not found", "path", path)
	}
	list, err := jokes.Load(path)
	if err != nil {
		return err
	}
	viewer, err := jokes.NewViewer(list, newRNG(v.GetUint64("seed")))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	c, err := newConsole(v)
	if err != nil {
		return err
	}
	handler.Mount(c, handler.NewJokes(c, viewer))
	return runConsole(c)
}

func openRecords(v *viper.Viper) (*records.Manager, error) {
	path, found := resource.Resolve(v.GetString("records-file"), recordsFileName, resourcesDir)
	if !found {
		slog.Info("records file not found, starting empty", "path", path)
	}
	return records.Open(path)
}

func runRecords(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	m, loadErr := openRecords(v)
	if m == nil {
		return fmt.Errorf("open records: %w", loadErr)
	}

	c, err := newConsole(v)
	if err != nil {
		return err
	}
	h := handler.NewRecords(c, m)
	var corrupt *records.CorruptDataError
	if errors.As(loadErr, &corrupt) {
		h.ReportLoadError(corrupt)
	}
	handler.Mount(c, h)
	return runConsole(c)
}

func runRecordsExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	m, err := openRecords(v)
	if m == nil {
		return fmt.Errorf("open records: %w", err)
	}
	if err != nil {
		slog.Warn("exporting partial records", "error", err)
	}
	return writeJSON(v.GetString("output"), m.Export())
}

func writeJSON(outPath string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
