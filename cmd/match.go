package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/logger"
	"github.com/spigell/nurse-matcher/internal/matching"
	"github.com/spigell/nurse-matcher/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank active jobs for a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("candidate", "c", "", "candidate id. When omitted a candidate is picked interactively.")
	matchCmd.Flags().StringP("output", "o", "table", "output format: table or json")
}

func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the nurse-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	eng, err := buildEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the matching engine", zap.Error(err))
	}

	err = runWithEngine(eng, func() error {
		return matchAndPrint(ctx, cmd, eng, logger)
	})
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}
}

func matchAndPrint(ctx context.Context, cmd *cobra.Command, eng *engine, logger *zap.Logger) error {
	var err error

	candidateID := strings.TrimSpace(cmd.Flag("candidate").Value.String())
	if candidateID == "" {
		candidateID, err = pickCandidate(ctx, eng.store)
		if err != nil {
			return fmt.Errorf("choosing a candidate (pass --candidate when the store cannot list profiles): %w", err)
		}
	}

	results, err := eng.service.MatchCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return fmt.Errorf("unknown candidate %q: %w", candidateID, err)
		}
		return err
	}

	logger.Info("matching finished",
		zap.String("candidate_id", candidateID),
		zap.Int("jobs", len(results)),
		zap.Bool("ai_enabled", eng.orchestrator.AIEnabled()),
	)

	if err := printResults(os.Stdout, cmd.Flag("output").Value.String(), results); err != nil {
		return fmt.Errorf("printing results: %w", err)
	}
	return nil
}

// pickCandidate lets the user choose among the stored profiles.
func pickCandidate(ctx context.Context, st store.Store) (string, error) {
	lister, ok := st.(store.Lister)
	if !ok {
		return "", errors.New("store cannot list candidate profiles")
	}

	profiles, err := lister.ListProfiles(ctx)
	if err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		return "", errors.New("no candidate profiles found")
	}

	items := make([]string, 0, len(profiles))
	for _, p := range profiles {
		label := p.ID
		if p.Name != "" {
			label = fmt.Sprintf("%s %s", p.ID, p.Name)
		}
		items = append(items, label)
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: items,
		Size:  10,
	}

	idx, _, err := candidatePrompt.Run()
	if err != nil {
		return "", err
	}
	return profiles[idx].ID, nil
}

func printResults(out io.Writer, format string, results []matching.MatchResult) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)

	case "", "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tSOURCE\tJOB\tTITLE\tFACILITY\tCERTIFICATIONS\tSKILLS\tEXPERIENCE")
		for _, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
				r.Score, r.Source, r.Job.ID, r.Job.Title, r.Job.Facility,
				strings.Join(r.MatchedCertifications, ","),
				strings.Join(r.MatchedSkills, ","),
				r.ExperienceMatch,
			)
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// redacted returns a copy of config safe to print.
func redacted(config *Config) Config {
	c := *config

	hide := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}

	if c.Store != nil {
		st := *c.Store
		st.DSN = hide(st.DSN)
		if st.Platform != nil {
			p := *st.Platform
			p.Token = hide(p.Token)
			st.Platform = &p
		}
		c.Store = &st
	}
	if c.AI != nil {
		a := *c.AI
		if a.Gemini != nil {
			g := *a.Gemini
			g.APIKey = hide(g.APIKey)
			a.Gemini = &g
		}
		if a.OpenAI != nil {
			o := *a.OpenAI
			o.APIKey = hide(o.APIKey)
			a.OpenAI = &o
		}
		c.AI = &a
	}
	if c.Notify != nil {
		n := *c.Notify
		if n.Telegram != nil {
			t := *n.Telegram
			t.Token = hide(t.Token)
			n.Telegram = &t
		}
		if n.Discord != nil {
			d := *n.Discord
			d.Token = hide(d.Token)
			n.Discord = &d
		}
		c.Notify = &n
	}
	return c
}
