package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bsp-config/internal/adapters"
	"bsp-config/internal/app"
)

type resolveOptions struct {
	configFlags
	OutputDir string
	PoolWidth int
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve overrides and write the registry and configuration header",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().IntVar(&opts.PoolWidth, "pool-width", adapters.DefaultPoolWidth, "Maximum line width of the generated string pool")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("pool_width", cmd.Flags().Lookup("pool-width"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		ConfigInput: opts.input(cmd),
		OutputDir:   resolveString(cmd, opts.OutputDir, "output", "output"),
		PoolWidth:   resolveInt(cmd, opts.PoolWidth, "pool_width", "pool-width"),
	})
	printDiagnostics(cmd.ErrOrStderr(), result.Report, result.Hints)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "overrides applied: %d (skipped %d)\n", result.Report.Applied, result.Report.Skipped)
	fmt.Fprintf(out, "requirements checked: %d\n", result.Requirements)
	printDrivers(out, result.Drivers)
	fmt.Fprintf(out, "registry: %d tables, %d pool bytes, %d init entries, %d symbols\n",
		result.Tables, result.PoolSize, result.InitEntries, result.Defines)
	for _, path := range result.Files {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}
