package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cachedev/cdev/internal/config"
	"github.com/cachedev/cdev/pkg/cdev"
)

// version is overridden by goreleaser via -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile   string
	username  string
	password  string
	namespace string
	instance  string
	host      string
	webPort   int
	verbose   bool
)

// fsys backs all local file reads and writes.
var fsys afero.Fs = afero.NewOsFs()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cdev",
	Short: "Command-line client for the Caché dev HTTP API",
	Long: `cdev talks to a Caché server through its /csp/sys/dev/ HTTP API.

It uploads, downloads, compiles and exports classes and routines, manages
XML export documents, and lists what lives in a namespace. Connection
details come from flags, ~/.cdev/config.yaml, or CDEV_* environment
variables; named instances in the config file are selected with -I.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".cdev"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("cdev")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.cdev/config.yaml)")
	pf.StringVarP(&username, "username", "U", "", `server account (default "_SYSTEM")`)
	pf.StringVarP(&password, "password", "P", "", `server account password (default "SYS")`)
	pf.StringVarP(&namespace, "namespace", "N", "", `target namespace (default "USER")`)
	pf.StringVarP(&instance, "instance", "I", "", "named instance from the config file")
	pf.StringVarP(&host, "host", "H", "", "server host")
	pf.IntVarP(&webPort, "web-server-port", "W", 0, fmt.Sprintf("server web port (default %d)", config.DefaultWebServerPort))
	pf.BoolVarP(&verbose, "verbose", "V", false, "output details")
	rootCmd.MarkFlagsMutuallyExclusive("instance", "host")
	rootCmd.MarkFlagsMutuallyExclusive("instance", "web-server-port")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// connectClient builds the client from the merged configuration.
func connectClient(ctx context.Context) (*cdev.Client, error) {
	cfg, err := config.Load(config.Flags{
		Username:      username,
		Password:      password,
		Namespace:     namespace,
		Instance:      instance,
		Host:          host,
		WebServerPort: webPort,
	}, viper.GetViper())
	if err != nil {
		return nil, err
	}
	return cdev.Connect(ctx, cfg.Host, cfg.WebServerPort, cfg.Username, cfg.Password,
		cdev.WithLogger(newLogger()),
	)
}

// connect additionally resolves the target namespace on the server.
func connect(ctx context.Context) (*cdev.Client, cdev.Namespace, error) {
	client, err := connectClient(ctx)
	if err != nil {
		return nil, cdev.Namespace{}, err
	}

	target := namespace
	if target == "" {
		target = viper.GetString("namespace")
	}
	if target == "" {
		target = "USER"
	}
	target = strings.ToUpper(target)

	namespaces, err := client.Namespaces(ctx)
	if err != nil {
		return nil, cdev.Namespace{}, err
	}
	for _, ns := range namespaces {
		if ns.Name == target {
			return client, ns, nil
		}
	}
	return nil, cdev.Namespace{}, fmt.Errorf("namespace %q not found on server", target)
}

// findFile locates a file by its case-sensitive name in a namespace listing.
func findFile(ctx context.Context, client *cdev.Client, ns cdev.Namespace, name string) (*cdev.File, error) {
	files, err := client.Files(ctx, ns)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].Name == name {
			return &files[i], nil
		}
	}
	return nil, fmt.Errorf("%q not found in namespace %s", name, ns.Name)
}

// operationError renders a failed operation's server error payload.
func operationError(action string, errs json.RawMessage) error {
	if len(errs) == 0 {
		return fmt.Errorf("%s failed", action)
	}
	return fmt.Errorf("%s failed: %s", action, errs)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cdev version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cdev %s\n", version)
	},
}
