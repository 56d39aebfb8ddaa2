package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/logger"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "timetablectl",
		Short:        "Generate and export class timetables offline",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			l, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg, a.logger = cfg, l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.AddCommand(a.generateCommand(), a.exportCommand(), a.tokenCommand())
	return root
}

func readProject(path string) (dto.Project, error) {
	var project dto.Project
	raw, err := os.ReadFile(path)
	if err != nil {
		return project, fmt.Errorf("read project: %w", err)
	}
	if err := json.Unmarshal(raw, &project); err != nil {
		return project, fmt.Errorf("decode project %s: %w", path, err)
	}
	if err := validator.New().Struct(project); err != nil {
		return project, fmt.Errorf("invalid project %s: %w", path, err)
	}
	return project, nil
}

func (a *app) generateCommand() *cobra.Command {
	var (
		projectPath string
		outPath     string
		classID     string
		seed        int64
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate timetables for a project file and write the updated project",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := readProject(projectPath)
			if err != nil {
				return err
			}
			if maxAttempts <= 0 {
				maxAttempts = a.cfg.Scheduler.MaxAttempts
			}
			school, err := service.BuildSchool(project, scheduler.WithMaxAttempts(maxAttempts))
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = a.cfg.Scheduler.Seed
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))

			var results []scheduler.ClassResult
			if classID != "" {
				class, ok := school.Class(classID)
				if !ok {
					return fmt.Errorf("class %q not found in %s", classID, projectPath)
				}
				results = append(results, scheduler.ClassResult{Class: class, Result: school.GenerateTimetable(class, rng)})
			} else {
				results = school.GenerateAll(rng)
			}
			a.logger.Info("generation finished", zap.Int64("seed", seed), zap.Int("classes", len(results)))

			printResults(cmd.ErrOrStderr(), results, school.Clashes())

			encoded, err := json.MarshalIndent(service.SnapshotProject(school, project), "", "  ")
			if err != nil {
				return fmt.Errorf("encode project: %w", err)
			}
			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return err
			}
			return os.WriteFile(outPath, append(encoded, '\n'), 0o644)
		},
	}
	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "project JSON file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&classID, "class", "", "generate a single class against the committed ones")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses SCHEDULER_SEED or the clock)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "attempts per class before accepting a best-effort timetable")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func printResults(w io.Writer, results []scheduler.ClassResult, clashes []scheduler.Clash) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tATTEMPTS\tREMAINDER\tEXPECTED\tOUTCOME")
	for _, r := range results {
		outcome := "perfect"
		if !r.Result.Perfect {
			outcome = "best effort"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", r.Class.ID, r.Result.Attempts, r.Result.Remainder, r.Result.Expected, outcome)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "teacher clashes: %d\n", len(clashes))
	for _, c := range clashes {
		for _, other := range c.With {
			fmt.Fprintf(w, "  %s %s period %d: %s with %s %s\n", c.Class.ID, c.Subject.Name, c.Start+1, c.Subject.Teacher.ID, other.Class.ID, other.Subject.Name)
		}
	}
}

func (a *app) exportCommand() *cobra.Command {
	var (
		projectPath string
		classID     string
		format      string
		dir         string
		retain      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a generated class timetable to CSV or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := readProject(projectPath)
			if err != nil {
				return err
			}
			school, err := service.BuildSchool(project)
			if err != nil {
				return err
			}
			class, ok := school.Class(classID)
			if !ok {
				return fmt.Errorf("class %q not found in %s", classID, projectPath)
			}
			if dir == "" {
				dir = a.cfg.Exports.StorageDir
			}
			store, err := storage.NewLocalStorage(dir)
			if err != nil {
				return err
			}
			if retain > 0 {
				pruned, err := store.CleanupOlderThan(retain)
				if err != nil {
					return err
				}
				if len(pruned) > 0 {
					a.logger.Info("old exports removed", zap.Strings("files", pruned))
				}
			}
			exporter := service.NewExportService(store, a.logger, nil, nil)
			result, err := exporter.Render(class, service.ExportFormat(format))
			if err != nil {
				return err
			}
			name, err := exporter.Store(result)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), store.Path(name))
			return err
		},
	}
	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "generated project JSON file")
	cmd.Flags().StringVar(&classID, "class", "", "class to export")
	cmd.Flags().StringVarP(&format, "format", "f", string(service.ExportFormatCSV), "csv or pdf")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (defaults to EXPORTS_STORAGE_DIR)")
	cmd.Flags().DurationVar(&retain, "retain", 0, "remove exports older than this before writing (0 keeps everything)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func (a *app) tokenCommand() *cobra.Command {
	var (
		userID string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the API's mutating routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := service.NewTokenService(a.cfg.JWT.Secret, a.cfg.JWT.Expiration)
			token, expiresAt, err := tokens.Issue(userID, models.UserRole(role))
			if err != nil {
				return err
			}
			a.logger.Info("token issued", zap.String("user_id", userID), zap.String("role", role), zap.Time("expires_at", expiresAt))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id recorded in the token")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "role claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
