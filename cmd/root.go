package cmd

import (
	"context"

	"github.com/mittwald/keepdisk/internal/config"
	"github.com/mittwald/keepdisk/pkg/lifecycle"
	"github.com/mittwald/keepdisk/pkg/logsink"
	"github.com/mittwald/keepdisk/pkg/pidfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const serviceName = "keepdisk"

type rootFlags struct {
	configPath string
	volume     config.Volume
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootFlags{})
}

func newRootCommand(flags *rootFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keepdisk",
		Short: "keepdisk - keep a disk from spinning down",
		Long: "keepdisk periodically lists the root of a volume and cycles a small test file on it, " +
			"so that the underlying disk never enters its idle state. " +
			"It runs in the foreground until interrupted, or as a service under the host service manager.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.volume.Drive, "drive", "d", config.DefaultDrive(), "drive letter or mount point of the volume to keep awake")
	f.IntVarP(&flags.volume.Interval, "interval", "i", config.DefaultInterval, "probe interval in seconds")
	f.BoolVarP(&flags.volume.Service, "service", "s", false, "run as a background service under the host service manager")
	f.StringVarP(&flags.configPath, "config", "c", "", "HCL configuration file, or directory of .hcl files")
	f.StringVar(&flags.volume.PIDFile, "pidfile", "", "write keepdisk's process id to this file")
	f.IntVar(&flags.volume.StatusPort, "status-port", 0, "serve the last probe result on this port (0 disables)")
	f.StringVar(&flags.volume.LogLevel, "log-level", config.DefaultLogLevel, "minimum log level (debug, info, warn, error)")
	f.StringVar(&flags.volume.FallbackLogFile, "fallback-log", "", "file used when the system log is unavailable in service mode")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// buildConfig layers defaults, the optional configuration file and the
// flags that were set explicitly.
func (f *rootFlags) buildConfig(cmd *cobra.Command) (config.Volume, error) {
	cfg := config.Defaults()

	if f.configPath != "" {
		if err := cfg.LoadFile(f.configPath); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("drive") {
		cfg.Drive = f.volume.Drive
	}
	if changed("interval") {
		cfg.Interval = f.volume.Interval
	}
	if changed("service") {
		cfg.Service = f.volume.Service
	}
	if changed("pidfile") {
		cfg.PIDFile = f.volume.PIDFile
	}
	if changed("status-port") {
		cfg.StatusPort = f.volume.StatusPort
	}
	if changed("log-level") {
		cfg.LogLevel = f.volume.LogLevel
	}
	if changed("fallback-log") {
		cfg.FallbackLogFile = f.volume.FallbackLogFile
	}

	cfg.ResolveEnv()
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Volume) error {
	mode := logsink.Console
	if cfg.Service || lifecycle.RunningUnderServiceManager() {
		mode = logsink.Service
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	release := logsink.Configure(log.StandardLogger(), mode, logsink.Options{
		Name:         serviceName,
		Level:        level,
		FallbackFile: cfg.FallbackLogFile,
	})
	defer release()

	pidFileHandle := pidfile.New(cfg.PIDFile)
	if err := pidFileHandle.Acquire(); err != nil {
		log.Errorf("failed to write pid file to %q: %s", cfg.PIDFile, err)
		return err
	}

	defer func() {
		if err := pidFileHandle.Release(); err != nil {
			log.Errorf("error while cleaning up the pid file: %s", err)
		}
	}()

	controller := lifecycle.NewController(cfg)

	if mode == logsink.Service {
		log.Infof("keepdisk %s running as service, monitoring volume %s every %d seconds", Version, cfg.Drive, cfg.Interval)
		return controller.RunAsService(lifecycle.DefaultServiceHost(serviceName))
	}

	log.Infof("keepdisk %s - console mode, monitoring volume %s every %d seconds", Version, cfg.Drive, cfg.Interval)
	return controller.RunForeground(ctx)
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
