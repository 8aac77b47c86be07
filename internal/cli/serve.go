package cli

import (
	"github.com/joeydtaylor/steeze-dispatch/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the manifest over HTTP until interrupted",
		Long: `Serve the actions and routes declared in the manifest.

Listens on $SERVER_LISTEN_ADDRESS (or [server].listen, or :4000), with TLS when
$SSL_SERVER_CERTIFICATE and $SSL_SERVER_KEY point at files. Editing the manifest
rebuilds the endpoint table without a restart.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(serveOptions(rootOpts)...)
			if err := app.Err(); err != nil {
				return WrapExitError(ExitCommandError, "serve", err)
			}
			app.Run()
			return nil
		},
	}
}

func serveOptions(rootOpts *RootOptions) []fx.Option {
	var opts []serverfx.Option
	if rootOpts.Manifest != "" {
		// The env var still wins, as it does for the server itself.
		opts = append(opts, serverfx.WithDefaultManifest(rootOpts.Manifest))
	}
	return []fx.Option{
		serverfx.Module(opts...),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
	}
}
