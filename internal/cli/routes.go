package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
	"github.com/joeydtaylor/steeze-dispatch/pkg/serverfx"
	"github.com/joeydtaylor/steeze-dispatch/pkg/transport/httpx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EndpointRow is one line of `steeze routes`.
type EndpointRow struct {
	Order       int      `json:"order"`
	Kind        string   `json:"kind"`
	Name        string   `json:"name,omitempty"`
	Methods     []string `json:"methods,omitempty"`
	Template    string   `json:"template"`
	DisplayName string   `json:"displayName,omitempty"`
	Filters     []string `json:"filters,omitempty"`
	Metadata    []string `json:"metadata,omitempty"`
	Patterns    []string `json:"patterns"`
}

// NewRoutesCommand creates the routes command.
func NewRoutesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "routes",
		Short:         "Print the endpoint table built from the manifest",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			rows, err := endpointRows(manifestPath(rootOpts))
			if err != nil {
				_ = f.Error("E_MANIFEST", err.Error())
				return WrapExitError(ExitCommandError, "routes", err)
			}
			if f.Format == "json" {
				return f.Success(rows)
			}
			return printRows(f, rows)
		},
	}
}

func manifestPath(opts *RootOptions) string {
	if opts.Manifest != "" {
		return opts.Manifest
	}
	if v := os.Getenv("STEEZE_MANIFEST"); v != "" {
		return v
	}
	return "manifest.toml"
}

func endpointRows(path string) ([]EndpointRow, error) {
	cfg, err := manifest.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	reg := action.NewRegistry(cfg.Descriptors()...)
	ds, err := serverfx.Source(reg, cfg.DynamicRoutes(), invoke.NewPipeline(), zap.NewNop())()
	if err != nil {
		return nil, err
	}

	eps := ds.Endpoints()
	rows := make([]EndpointRow, 0, len(eps))
	for _, ep := range eps {
		row := EndpointRow{
			Order:       ep.Order,
			Kind:        ep.Kind().String(),
			Name:        ep.Name(),
			Methods:     ep.Methods(),
			Template:    ep.Template,
			DisplayName: ep.DisplayName,
			Patterns:    httpx.Patterns(routing.ParseTemplate(ep.Template), ep.Defaults),
		}
		for _, it := range ep.Metadata.Items() {
			if fl, ok := it.(action.Filter); ok {
				row.Filters = append(row.Filters, fl.Name)
			}
			row.Metadata = append(row.Metadata, metadataLabel(it))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func metadataLabel(it any) string {
	switch v := it.(type) {
	case action.Filter:
		return "filter:" + v.Name
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%T", it)
}

func printRows(f *OutputFormatter, rows []EndpointRow) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tKIND\tNAME\tMETHODS\tTEMPLATE\tACTION\tFILTERS")
	for _, r := range rows {
		methods := "*"
		if len(r.Methods) > 0 {
			methods = strings.Join(r.Methods, ",")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Order, r.Kind, dash(r.Name), methods, r.Template, dash(r.DisplayName), dash(strings.Join(r.Filters, ",")))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
