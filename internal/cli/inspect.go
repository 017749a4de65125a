package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bsp-config/internal/app"
)

type inspectOptions struct {
	configFlags
	From   string
	Prefix string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List resolved settings, optionally under a key prefix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.From, "from", "", "Read the report written by an earlier resolve into this directory")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Only list keys under this dotted prefix")
	_ = viper.BindPFlag("inspect_from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("prefix", cmd.Flags().Lookup("prefix"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		ConfigInput: opts.input(cmd),
		OutputDir:   resolveString(cmd, opts.From, "inspect_from", "from"),
		Prefix:      resolveString(cmd, opts.Prefix, "prefix", "prefix"),
	})
	printDiagnostics(cmd.ErrOrStderr(), result.Report, result.Hints)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, setting := range result.Settings {
		fmt.Fprintf(out, "%s = %s (%s)\n", setting.Key, setting.Value, setting.Kind)
	}
	fmt.Fprintf(out, "settings: %d\n", len(result.Settings))
	return nil
}
