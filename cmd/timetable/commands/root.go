package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rhyrak/go-timetable/pkg/config"
	"github.com/rhyrak/go-timetable/pkg/logger"
)

var (
	cfgFile  string
	logLevel string

	appCfg *config.Config
	log    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Weekly timetable generator",
	Long: `timetable - deterministic weekly timetables for course groups.

Reads courses, rooms and time slots from csv, fills one grid per
half-term and exports the results.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(dashedFlags)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("[ERROR] config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	l, err := logger.New(cfg)
	if err != nil {
		fmt.Printf("[ERROR] logger: %v\n", err)
		os.Exit(1)
	}

	appCfg = cfg
	log = l
}

// dashedFlags accepts --log_level style spellings for every flag.
func dashedFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
