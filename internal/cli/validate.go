package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bsp-config/internal/app"
	"bsp-config/internal/core"
	"bsp-config/internal/types"
)

// configFlags are shared by every command that loads a tree and applies
// overrides to it.
type configFlags struct {
	Tree         string
	OverrideDirs []string
	Overrides    []string
	Settings     []string
	Platform     string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Tree, "tree", "", "Configuration tree path")
	cmd.Flags().StringSliceVar(&f.OverrideDirs, "override-dir", nil, "Directories whose override files are applied first, in path order")
	cmd.Flags().StringSliceVar(&f.Overrides, "override", nil, "Override file paths, applied in order")
	cmd.Flags().StringArrayVar(&f.Settings, "set", nil, "Extra key=value setting, applied after override files")
	cmd.Flags().StringVar(&f.Platform, "platform", "", "Platform namespace holding device instances")
	_ = viper.BindPFlag("tree", cmd.Flags().Lookup("tree"))
	_ = viper.BindPFlag("override_dirs", cmd.Flags().Lookup("override-dir"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("override"))
	_ = viper.BindPFlag("set", cmd.Flags().Lookup("set"))
	_ = viper.BindPFlag("platform", cmd.Flags().Lookup("platform"))
}

func (f configFlags) input(cmd *cobra.Command) app.ConfigInput {
	return app.ConfigInput{
		TreePath:      resolveString(cmd, f.Tree, "tree", "tree"),
		OverrideDirs:  resolveStrings(cmd, f.OverrideDirs, "override_dirs", "override-dir"),
		OverrideFiles: resolveStrings(cmd, f.Overrides, "overrides", "override"),
		Settings:      resolveStrings(cmd, f.Settings, "set", "set"),
		Platform:      resolveString(cmd, f.Platform, "platform", "platform"),
	}
}

type validateOptions struct {
	configFlags
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Apply overrides and check requirements and drivers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{ConfigInput: opts.input(cmd)})
	printDiagnostics(cmd.ErrOrStderr(), result.Report, result.Hints)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "overrides applied: %d (skipped %d)\n", result.Report.Applied, result.Report.Skipped)
	fmt.Fprintf(out, "requirements checked: %d\n", result.Requirements)
	printDrivers(out, result.Drivers)
	fmt.Fprintln(out, "configuration valid")
	return nil
}

// printDiagnostics writes every diagnostic in the order it was raised,
// followed by the hints derived from them.
func printDiagnostics(w io.Writer, report types.ResolutionReport, hints []string) {
	for _, diag := range report.Diagnostics {
		fmt.Fprintln(w, diag.String())
	}
	for _, name := range report.Restored {
		fmt.Fprintf(w, "config %s: mandatory component %s re-enabled\n", types.SeverityWarning, name)
	}
	for _, hint := range hints {
		fmt.Fprintln(w, hint)
	}
}

func printDrivers(w io.Writer, drivers []core.DriverState) {
	if len(drivers) == 0 {
		return
	}
	fmt.Fprintln(w, "drivers:")
	for _, driver := range drivers {
		state := "disabled"
		if driver.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(w, "- %s: %s (%d references)\n", driver.Name, state, driver.References)
	}
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
