// Package main provides the CLI entrypoint for pedit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/acastaldi/pedit/internal/auth"
	"github.com/acastaldi/pedit/internal/config"
	"github.com/acastaldi/pedit/internal/corpus"
	"github.com/acastaldi/pedit/internal/export"
	"github.com/acastaldi/pedit/internal/model"
	"github.com/acastaldi/pedit/internal/score"
	"github.com/acastaldi/pedit/internal/session"
	"github.com/acastaldi/pedit/internal/stats"
	"github.com/acastaldi/pedit/internal/statsui"
	"github.com/acastaldi/pedit/internal/store"
	"github.com/acastaldi/pedit/internal/tui"
)

const (
	defaultExportFormat = "json"
	defaultCurveWindow  = 1
	defaultPlotHeight   = 8
)

var (
	sessionEmail        string
	sessionCorpus       string
	sessionExportFormat string
	sessionExportDir    string

	statsEmail       string
	statsSince       string
	statsCurveWindow int
	statsPlain       bool

	scoreEmail     string
	scoreReference string

	exportEmail  string
	exportFormat string
	exportOut    string

	userName    string
	userSurname string
	userEmail   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pedit",
		Short:         "TUI machine translation post-editing tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().StringVar(&sessionEmail, "email", "", "user email")
	rootCmd.Flags().StringVar(&sessionCorpus, "corpus", "", "path to machine-translated corpus (one segment per line)")
	rootCmd.Flags().StringVar(&sessionExportFormat, "export-format", defaultExportFormat, "export format after the session (csv, json, none)")
	rootCmd.Flags().StringVar(&sessionExportDir, "export-dir", "", "directory for export files")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "email", &sessionEmail, fileCfg.Session.Email)
	applyStringConfig(cmd, "corpus", &sessionCorpus, fileCfg.Session.Corpus)
	applyStringConfig(cmd, "export-format", &sessionExportFormat, fileCfg.Session.ExportFormat)
	applyStringConfig(cmd, "export-dir", &sessionExportDir, fileCfg.Session.ExportDir)

	if sessionCorpus == "" {
		return fmt.Errorf("--corpus is required (or set it in %s)", config.DefaultConfigPath())
	}
	if err := validateExportFormat(sessionExportFormat, true); err != nil {
		return err
	}
	if sessionExportDir == "" {
		sessionExportDir = config.DefaultExportDir()
	}

	segments, err := corpus.LoadSegments(sessionCorpus)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := login(st, sessionEmail)
	if err != nil {
		return err
	}

	nav := session.NewNavigator()
	if err := nav.Load(segments); err != nil {
		if errors.Is(err, session.ErrEmptyCorpus) {
			return fmt.Errorf("corpus %s contains no segments", sessionCorpus)
		}
		return fmt.Errorf("failed to start session: %w", err)
	}

	uiModel := tui.NewModel(nav, st, user, sessionCorpus)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	finished, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	final, ok := finished.(*tui.Model)
	if !ok || !final.Completed() {
		logErrln("Session aborted; nothing saved or exported.")
		return nil
	}
	if sessionExportFormat == "none" {
		return nil
	}
	path, err := writeExport(final.Records(), sessionExportFormat, sessionExportDir)
	if err != nil {
		return fmt.Errorf("failed to export session: %w", err)
	}
	fmt.Printf("Exported session metrics to %s\n", path)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the post-editing dashboard",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsEmail, "email", "", "limit to one user")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window for edit-time curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report to stdout instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Email:       statsEmail,
		Since:       sinceTime,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain {
		return printReport(cmd.OutOrStdout(), st, cfg)
	}

	uiModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printReport(w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderOverview(w, report.Overview); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := stats.RenderUserTable(w, report.Aggregates); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := stats.RenderUserCurves(w, report, 0, defaultPlotHeight, false); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score post-edited output against references",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreEmail, "email", "", "user whose latest session is scored")
	cmd.Flags().StringVar(&scoreReference, "reference", "", "reference file (.txt or .csv with a reference column)")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "email", &scoreEmail, fileCfg.Session.Email)
	if scoreReference == "" {
		return fmt.Errorf("--reference is required")
	}

	references, err := corpus.LoadReferences(scoreReference)
	if err != nil {
		return fmt.Errorf("failed to load references: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(st, scoreEmail)
	if err != nil {
		return err
	}
	hypotheses, err := st.PostEditedSegments(context.Background(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to load post-edited segments: %w", err)
	}
	if len(hypotheses) == 0 {
		return fmt.Errorf("no completed sessions found for %s", user.Email)
	}

	scores, err := score.Score(references, hypotheses)
	if err != nil {
		var mismatch *score.MismatchedLengthError
		if errors.As(err, &mismatch) {
			return fmt.Errorf("reference file does not match the session: %w", err)
		}
		return fmt.Errorf("failed to score: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scores for %s %s (%d segments)\n", user.Name, user.Surname, len(hypotheses))
	fmt.Fprintf(out, "BLEU: %.2f\n", scores.BLEU)
	fmt.Fprintf(out, "chrF: %.2f\n", scores.ChrF)
	fmt.Fprintf(out, "TER:  %.2f\n", scores.TER)
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the latest session metrics",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportEmail, "email", "", "user whose latest session is exported")
	cmd.Flags().StringVar(&exportFormat, "format", defaultExportFormat, "export format (csv, json)")
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "email", &exportEmail, fileCfg.Session.Email)
	applyStringConfig(cmd, "format", &exportFormat, fileCfg.Session.ExportFormat)
	if err := validateExportFormat(exportFormat, false); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(st, exportEmail)
	if err != nil {
		return err
	}
	records, err := st.LatestRecords(context.Background(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to load session records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no completed sessions found for %s", user.Email)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close output file: %v\n", cerr)
			}
		}()
		w = f
	}
	if err := writeRecords(w, records, exportFormat); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return nil
}

func newUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE:  runUsersAddCmd,
	}
	addCmd.Flags().StringVar(&userName, "name", "", "first name")
	addCmd.Flags().StringVar(&userSurname, "surname", "", "surname")
	addCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	usersCmd.AddCommand(addCmd)
	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE:  runUsersListCmd,
	})
	return usersCmd
}

func runUsersAddCmd(cmd *cobra.Command, _ []string) error {
	if userName == "" || userSurname == "" || userEmail == "" {
		return fmt.Errorf("--name, --surname, and --email are required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.CreateUser(context.Background(), model.User{
		Name:         userName,
		Surname:      userSurname,
		Email:        userEmail,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s %s <%s> (id %d)\n", userName, userSurname, userEmail, id)
	return nil
}

func runUsersListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	users, err := st.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users registered. Run: pedit users add")
		return nil
	}
	for _, u := range users {
		status := "active"
		if !u.Active {
			status = "inactive"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s> (%s)\n", u.Name, u.Surname, u.Email, status)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func lookupUser(st *store.Store, email string) (model.User, error) {
	if email == "" {
		return model.User{}, fmt.Errorf("--email is required (or set it in %s)", config.DefaultConfigPath())
	}
	user, err := st.GetUserByEmail(context.Background(), email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return model.User{}, fmt.Errorf("no user with email %s; run: pedit users add", email)
		}
		return model.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func login(st *store.Store, email string) (model.User, error) {
	user, err := lookupUser(st, email)
	if err != nil {
		return model.User{}, err
	}
	password, err := promptPassword(fmt.Sprintf("Password for %s: ", user.Email))
	if err != nil {
		return model.User{}, err
	}
	if err := auth.Verify(user, password); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func validateExportFormat(format string, allowNone bool) error {
	switch format {
	case "csv", "json":
		return nil
	case "none":
		if allowNone {
			return nil
		}
	}
	return fmt.Errorf("unsupported export format %q (use csv or json)", format)
}

func writeExport(records []model.EditRecord, format, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	name := fmt.Sprintf("session-%s.%s", time.Now().Format("20060102-150405"), format)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close export file: %v\n", cerr)
		}
	}()
	if err := writeRecords(f, records, format); err != nil {
		return "", err
	}
	return path, nil
}

func writeRecords(w io.Writer, records []model.EditRecord, format string) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, records)
	case "json":
		return export.WriteJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pedit configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# email = "translator@example.com"  # Default user email
# corpus = "corpus.txt"             # Machine-translated corpus (one segment per line)
# export-format = %q             # Export format after a session (csv, json, none)
# export-dir = %q                # Directory for export files

[stats]
# curve-window = %d                  # Moving average window for edit-time curves
`,
		defaultExportFormat,
		config.DefaultExportDir(),
		defaultCurveWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
