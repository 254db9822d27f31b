package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/scottcagno/hashtable/pkg/config"
	"github.com/scottcagno/hashtable/pkg/dispatch"
	"github.com/scottcagno/hashtable/pkg/hashmap/elements"
	"github.com/scottcagno/hashtable/pkg/logger"
	"github.com/scottcagno/hashtable/pkg/metrics"
	"github.com/scottcagno/hashtable/pkg/wordcount"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options are the flags shared by every command
type options struct {
	configPath    string
	logLevel      string
	redactLogs    bool
	maxLoadFactor float64
	maxCapacity   int
	capacity      int
	wordKey       string
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	fs.BoolVar(&o.redactLogs, "redact-logs", false, "redact element contents in log output")
	fs.Float64Var(&o.maxLoadFactor, "max-load-factor", 0, "grow once elements per bucket would exceed this")
	fs.IntVar(&o.maxCapacity, "max-capacity", 0, "largest bucket count a table may grow to")
	fs.IntVar(&o.capacity, "capacity", 0, "initial bucket count")
	fs.StringVar(&o.wordKey, "word-key", "", "word key derivation fed to the golden ratio hash (sum, xxhash)")
}

// load builds the effective config: defaults, then the config file,
// then any flags set on the command line
func (o *options) load(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	conf := config.Default()
	if o.configPath != "" {
		var err error
		if conf, err = config.Load(o.configPath); err != nil {
			return nil, nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		conf.LogLevel = o.logLevel
	}
	if flags.Changed("redact-logs") {
		conf.RedactLogs = o.redactLogs
	}
	if flags.Changed("max-load-factor") {
		conf.MaxLoadFactor = o.maxLoadFactor
	}
	if flags.Changed("max-capacity") {
		conf.MaxCapacity = o.maxCapacity
	}
	if flags.Changed("capacity") {
		conf.InitialCapacity = o.capacity
		conf.WordCapacity = o.capacity
	}
	if flags.Changed("word-key") {
		conf.WordKey = o.wordKey
	}
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := conf.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return conf, log, nil
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "chtab",
		Short: "chtab drives a chained hash table from standard input",
		Long: `chtab drives a chained hash table from standard input.

With no subcommand the first token of the input selects the session:
    1   an int table session       (count, bucket, then "i <n>" / "r <n>" operations)
    2   a char table session       (same, with single character values)
    3   a word count               (query word, then free text)
The table's final capacity and the requested bucket (or word) are printed.
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return dispatch.New(cmd.OutOrStdout(), conf, log).Run(cmd.InOrStdin())
		},
	}
	opts.register(cmd.PersistentFlags())

	cmd.AddCommand(makeIntsCommand(opts))
	cmd.AddCommand(makeCharsCommand(opts))
	cmd.AddCommand(makeWordsCommand(opts))
	cmd.AddCommand(makeStatsCommand(opts))
	cmd.AddCommand(makeConfigCommand(opts))
	return cmd
}

func makeIntsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ints",
		Short: "Run an int table session read from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			d := dispatch.New(cmd.OutOrStdout(), conf, log)
			tk := wordcount.NewTokenizer(cmd.InOrStdin(), conf.MaxTokenLen)
			return dispatch.RunTable[int](d, tk, elements.IntOps{})
		},
	}
}

func makeCharsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chars",
		Short: "Run a char table session read from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			d := dispatch.New(cmd.OutOrStdout(), conf, log)
			tk := wordcount.NewTokenizer(cmd.InOrStdin(), conf.MaxTokenLen)
			return dispatch.RunTable[byte](d, tk, elements.CharOps{})
		},
	}
}

func makeWordsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "words <query>",
		Short: "Count the words on standard input and print the record for <query>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return dispatch.New(cmd.OutOrStdout(), conf, log).RunWords(cmd.InOrStdin(), args[0])
		},
	}
}

func makeStatsCommand(opts *options) *cobra.Command {
	var top int
	var metricsPath string
	cmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Count words in the given files (or standard input) and report the table's shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			c, err := wordcount.NewCounter(conf.CounterConfig(log))
			if err != nil {
				return err
			}
			defer c.Close()
			if len(args) == 0 {
				if err := c.Feed(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			for _, path := range args {
				if err := feedFile(c, path); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if err := writeStats(out, c); err != nil {
				return err
			}
			if top > 0 {
				writeTop(out, c.Top(top))
			}
			if metricsPath != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(metrics.NewCollector("words", c.Table()))
				return writeMetrics(metricsPath, reg)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "also list the N most frequent words")
	cmd.Flags().StringVar(&metricsPath, "metrics", "", "write table metrics in Prometheus text format to this file")
	return cmd
}

func makeConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), conf.String())
			return err
		},
	}
}

func feedFile(c *wordcount.Counter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "stats")
	}
	defer f.Close()
	return errors.Wrapf(c.Feed(f), "stats: %s", path)
}

func writeStats(w io.Writer, c *wordcount.Counter) error {
	st := c.Table().Stats()
	var total int
	for _, word := range c.Top(0) {
		total += word.Count
	}
	fmt.Fprintf(w, "words: %s total, %s distinct\n", humanize.Comma(int64(total)), humanize.Comma(int64(st.Len)))
	fmt.Fprintf(w, "buckets: %s (%d grows), %s used, load factor %.2f\n",
		humanize.Comma(int64(st.Cap)), st.Grows, humanize.Comma(int64(st.Used)), st.LoadFactor())

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"chain length", "buckets", "share"})
	for n, count := range st.Chains {
		if count == 0 {
			continue
		}
		share := 100 * float64(count) / float64(st.Cap)
		table.Append([]string{strconv.Itoa(n), humanize.Comma(int64(count)), fmt.Sprintf("%.1f%%", share)})
	}
	table.Render()
	return nil
}

func writeTop(w io.Writer, words []*elements.Word) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"rank", "word", "count"})
	for i, word := range words {
		table.Append([]string{humanize.Ordinal(i + 1), word.Text, humanize.Comma(int64(word.Count))})
	}
	table.Render()
}

func writeMetrics(path string, g prometheus.Gatherer) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "metrics")
	}
	if err := metrics.WriteText(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
