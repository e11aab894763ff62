// Command formbind serves the people registration forms and exposes the
// form schemas on the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/formprompt"
)

func main() {
	if err := newRootCmd(newApp(os.Stdout, os.Stderr)).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "formbind:", err)
		os.Exit(1)
	}
}

// app carries what the commands share: the viper instance flags are bound
// to, the output streams and the prompt driver.
type app struct {
	v          *viper.Viper
	configFile string
	out        io.Writer
	errOut     io.Writer
	driver     formprompt.Driver
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		v:      config.New(),
		out:    out,
		errOut: errOut,
		driver: &formprompt.SurveyDriver{Out: out},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formbind",
		Short:         "Property-path form binding demo",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindFlags(a.v, cmd.Flags())
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default formbind.yaml in . or ~/.config/formbind)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	root.AddCommand(newServeCmd(a), newSchemaCmd(a), newPromptCmd(a))
	return root
}

// load reads the merged configuration and builds the logger it describes.
func (a *app) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: a.errOut,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
