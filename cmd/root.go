package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"ytls/internal/archive"
	"ytls/internal/fetcher"
	"ytls/internal/output"
	"ytls/internal/playlist"
)

var (
	outputPath  string
	jsonOutput  bool
	userAgent   string
	maxPages    int
	requestRate float64
	archivePath string
	newOnly     bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ytls [playlist URL or ID]",
	Short: "List the contents of a YouTube playlist",
	Long: `ytls lists every video of a YouTube playlist as watch URL and title pairs.

It scrapes the playlist page for the embedded listing data and follows the
continuation chain until the playlist is exhausted, merging all pages into one
ordered, deduplicated listing. No API key is required.`,
	Example: `  # List a playlist to stdout
  ytls https://www.youtube.com/playlist?list=PLynG8gQD-n8BMplEfPEqKZIXnBRFZbp70

  # A bare playlist ID works too
  ytls PLynG8gQD-n8BMplEfPEqKZIXnBRFZbp70

  # Write the listing as JSON to a file
  ytls --json -o listing.json PLynG8gQD-n8BMplEfPEqKZIXnBRFZbp70

  # Track seen videos and print only additions since the last run
  ytls --archive ~/.ytls/seen.db --new-only PLynG8gQD-n8BMplEfPEqKZIXnBRFZbp70`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the listing to a file instead of stdout")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the listing as JSON instead of tab-separated text")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "Custom User-Agent header")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Stop after this many pages (0 = no cap)")
	rootCmd.Flags().Float64Var(&requestRate, "rate", 0, "Maximum continuation requests per second (0 = unlimited)")
	rootCmd.Flags().StringVar(&archivePath, "archive", "", "SQLite file recording videos already seen per playlist")
	rootCmd.Flags().BoolVar(&newOnly, "new-only", false, "With --archive, list only videos not seen in earlier runs")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// runList is the main execution function for the root command.
func runList(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if newOnly && archivePath == "" {
		return fmt.Errorf("--new-only requires --archive")
	}

	fetcherOpts := fetcher.DefaultOptions()
	if userAgent != "" {
		fetcherOpts.UserAgent = userAgent
	}

	opts := playlist.Options{
		MaxPages: maxPages,
		Logger:   &logger,
	}
	if requestRate > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(requestRate), 1)
	}

	ctx := cmd.Context()
	p, buildErr := playlist.Build(ctx, args[0], fetcher.New(fetcherOpts), opts)
	if p == nil {
		return fmt.Errorf("list playlist: %w", buildErr)
	}
	if buildErr != nil {
		// Pages fetched before the failure are still usable; emit them and
		// report the failure through the exit status.
		logger.Warn().Err(buildErr).Int("entries", p.Len()).Msg("pagination stopped early, listing is partial")
	}

	entries := p.Entries()
	if archivePath != "" {
		filtered, err := recordInArchive(cmd, p, logger)
		if err != nil {
			return err
		}
		if newOnly {
			entries = filtered
		}
	}

	dst, err := output.Create(outputPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if jsonOutput {
		err = output.WriteJSON(dst, p, entries)
	} else {
		err = output.WriteText(dst, entries)
	}
	if err != nil {
		return err
	}

	stats := p.Stats()
	logger.Info().
		Str("playlist", p.ID).
		Int("pages", stats.Pages).
		Int("videos", p.Len()).
		Int("duplicates", stats.Duplicates).
		Msg("listing complete")

	return buildErr
}

// recordInArchive stores the playlist's entries in the archive and returns
// the ones that were not previously seen.
func recordInArchive(cmd *cobra.Command, p *playlist.Playlist, logger zerolog.Logger) ([]playlist.Entry, error) {
	store, err := archive.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ctx := cmd.Context()
	fresh, err := store.FilterNew(ctx, p.ID, p.Entries())
	if err != nil {
		return nil, err
	}
	added, err := store.Record(ctx, p.ID, p.Entries())
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("archive", archivePath).
		Int("new", added).
		Msg("archive updated")
	return fresh, nil
}

// newLogger builds the console logger. Progress and summaries go to stderr so
// the listing on stdout stays machine-readable.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
