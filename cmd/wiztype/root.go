package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skdltmxn/wiztype/internal/config"
	"github.com/skdltmxn/wiztype/internal/logflags"
	"github.com/skdltmxn/wiztype/remote"
	"github.com/skdltmxn/wiztype/rtti"
)

var (
	cfgFile    string
	logFlag    bool
	logOutput  string
	outputFile string
	output     io.Writer
)

// openProcess attaches to the target by executable name.
var openProcess = func(name string) (remote.Process, error) {
	return remote.Open(name)
}

var rootCmd = &cobra.Command{
	Use:   "wiztype",
	Short: "Game client type registry extractor",
	Long: `wiztype reads the runtime type registry of a running Wizard101 client
and writes the classes it describes as JSON.

It locates the registry through a code signature, walks the registry tree
and decodes every class, its base classes and its properties.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logflags.Setup(logFlag, logOutput); err != nil {
			return err
		}

		used, err := config.Init(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		if used != "" {
			logflags.LocatorLogger().Debugf("using config file %s", used)
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = cmd.OutOrStdout()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wiztype/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&logFlag, "log", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "", "comma separated list of components that should produce debug output (locator, walker, dumper, remote)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write listings to file instead of stdout")
	rootCmd.PersistentFlags().StringP("process", "p", config.DefaultProcess, "executable name of the target process")
	viper.BindPFlag(config.KeyProcess, rootCmd.PersistentFlags().Lookup("process"))

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(schemaCmd)
}

// session is an attached target with its extracted registry.
type session struct {
	proc remote.Process
	snap *rtti.Snapshot
	cfg  *config.Config
}

func (s *session) Close() error {
	return s.proc.Close()
}

// attach opens the configured process and extracts its registry.
func attach() (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	proc, err := openProcess(cfg.Process)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Process, err)
	}

	snap, err := rtti.Extract(proc, cfg.Options)
	if err != nil {
		proc.Close()
		return nil, fmt.Errorf("failed to extract type registry: %w", err)
	}
	return &session{proc: proc, snap: snap, cfg: cfg}, nil
}
