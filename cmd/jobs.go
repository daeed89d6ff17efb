package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/logger"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List active job postings after filters",
	Run: func(_ *cobra.Command, _ []string) {
		jobs()
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func jobs() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, closeFn, err := newStore(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	if closeFn != nil {
		defer closeFn()
	}

	postings, err := st.ActiveJobs(ctx)
	if err != nil {
		logger.Fatal("listing active jobs", zap.Error(err))
	}

	filters := newFilters(config.Filters, logger)
	postings, err = filters.RunFilters(ctx, postings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	for _, status := range filters.Describe() {
		logger.Debug("filter", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.Any("details", status.Details))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tFACILITY\tCERTIFICATIONS\tMIN YEARS\tCREATED")
	for _, job := range postings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%s\n",
			job.ID, job.Title, job.Facility, job.RequiredCertifications, job.MinExperienceYears,
			job.CreatedAt.Format("2006-01-02"),
		)
	}
	w.Flush()

	logger.Info("active jobs", zap.Int("count", len(postings)))
}
