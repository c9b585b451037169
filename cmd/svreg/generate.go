package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"svreg/internal/component"
	"svreg/internal/diag"
	"svreg/internal/diagfmt"
	"svreg/internal/ident"
	"svreg/internal/observ"
	"svreg/internal/outcache"
	"svreg/internal/pipeline"
	"svreg/internal/regmap"
)

var generateCmd = &cobra.Command{
	Use:   "generate [register_map.toml...]",
	Short: "Generate RTL modules and RAL packages",
	Long: `Generate one RTL module (<block>.sv) and one RAL package (<block>_ral_pkg.sv)
per register block. Without arguments the register maps listed in the nearest
svreg.toml are used. Flags override the manifest.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringP("out", "o", "", "output directory")
	f.Int("bus-width", 0, "host bus width in bits")
	f.Int("address-width", 0, "host address width in bits")
	f.String("array-port-format", "", "array port format (packed|unpacked|serialized)")
	f.String("protocol", "", "host protocol (axi4lite|apb)")
	f.Bool("fold-sv-interface-port", true, "use a SystemVerilog interface port for the host bus")
	f.StringSlice("enable", nil, "features to enable (default: all)")
	f.IntP("jobs", "j", 0, "max parallel blocks (0=auto)")
	f.Bool("no-cache", false, "always rewrite output files")
	f.Bool("clean-cache", false, "drop the output cache before generating")
	f.Bool("list-features", false, "print the feature ids and exit")
	f.String("diagnostics-format", "pretty", "diagnostics output (pretty|json)")
}

// reportedError marks an error whose diagnostics were already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func errorReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if list, _ := flags.GetBool("list-features"); list {
		return listFeatures(cmd)
	}

	settings, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	if len(settings.Maps) == 0 {
		return errors.New("no register maps to generate")
	}

	uiValue, _ := root.GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, _ := root.GetBool("quiet")
	showTimings, _ := root.GetBool("timings")
	maxDiagnostics, _ := root.GetInt("max-diagnostics")
	jobs, _ := flags.GetInt("jobs")
	diagFormat, _ := flags.GetString("diagnostics-format")
	if diagFormat != "pretty" && diagFormat != "json" {
		return fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", diagFormat)
	}

	var cache *outcache.Cache
	if noCache, _ := flags.GetBool("no-cache"); !noCache {
		cache, err = outcache.Open("svreg")
		if err != nil {
			// a missing cache only costs rewrites
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: output cache disabled: %v\n", err)
			cache = nil
		}
	}
	if clean, _ := flags.GetBool("clean-cache"); clean && cache != nil {
		if err := cleanCache(cache); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleared output cache %s\n", cache.Dir())
		}
	}

	timer := observ.NewTimer()
	req := &pipeline.Request{
		MapFiles:       settings.Maps,
		Config:         settings.Config,
		Enabled:        settings.Enabled,
		OutputDir:      settings.OutputDir,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Timer:          timer,
	}

	var res *pipeline.Result
	if !quiet && shouldUseTUI(mode, len(settings.Maps)) {
		res, err = runWithUI(cmd.Context(), "svreg generate", req)
	} else {
		res, err = pipeline.Run(cmd.Context(), req)
	}

	if res != nil && res.Bag.Len() > 0 {
		res.Bag.Dedup()
		res.Bag.Sort()
		if diagFormat == "json" {
			if jerr := diagfmt.JSON(cmd.OutOrStdout(), res.Bag, diagfmt.JSONOpts{Max: maxDiagnostics, IncludeNotes: true}); jerr != nil {
				return jerr
			}
		} else {
			diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, diagfmt.PrettyOpts{
				Color:     colorEnabled(),
				ShowNotes: true,
			})
		}
	}
	if err != nil {
		dumpTraceRing(cmd)
		if errors.Is(err, pipeline.ErrFailed) {
			return reportedError{err}
		}
		return err
	}

	if !quiet {
		printGenerated(cmd, res)
	}
	if showTimings {
		printTimings(cmd.OutOrStdout(), res.Timings, timer)
	}
	return nil
}

// cleanCache drops every record and reopens the empty cache directory.
func cleanCache(cache *outcache.Cache) error {
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear output cache: %w", err)
	}
	if _, err := outcache.OpenAt(cache.Dir()); err != nil {
		return fmt.Errorf("failed to recreate output cache: %w", err)
	}
	return nil
}

// resolveSettings layers defaults, the manifest and the command line.
func resolveSettings(cmd *cobra.Command, args []string) (projectSettings, error) {
	flags := cmd.Flags()
	settings := projectSettings{
		Config:  regmap.DefaultConfiguration(),
		Enabled: component.All(),
	}

	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return settings, reportConfigError(cmd, err)
	}
	if found {
		settings = manifest.Settings
	}

	if len(args) > 0 {
		settings.Maps = settings.Maps[:0]
		for _, a := range args {
			abs, err := filepath.Abs(a)
			if err != nil {
				return settings, err
			}
			settings.Maps = append(settings.Maps, abs)
		}
		if !found {
			wd, err := os.Getwd()
			if err != nil {
				return settings, err
			}
			settings.OutputDir = wd
		}
	} else if !found {
		return settings, errors.New(noManifestMessage)
	}

	if flags.Changed("out") {
		out, _ := flags.GetString("out")
		abs, err := filepath.Abs(out)
		if err != nil {
			return settings, err
		}
		settings.OutputDir = abs
	}
	if flags.Changed("bus-width") {
		settings.Config.BusWidth, _ = flags.GetInt("bus-width")
	}
	if flags.Changed("address-width") {
		settings.Config.AddressWidth, _ = flags.GetInt("address-width")
	}
	if flags.Changed("array-port-format") {
		s, _ := flags.GetString("array-port-format")
		f, err := ident.ParseFormat(s)
		if err != nil {
			return settings, err
		}
		settings.Config.ArrayPortFormat = f
	}
	if flags.Changed("protocol") {
		s, _ := flags.GetString("protocol")
		p, err := regmap.ParseProtocol(s)
		if err != nil {
			return settings, err
		}
		settings.Config.Protocol = p
	}
	if flags.Changed("fold-sv-interface-port") {
		settings.Config.FoldInterfacePort, _ = flags.GetBool("fold-sv-interface-port")
	}
	if flags.Changed("enable") {
		ids, _ := flags.GetStringSlice("enable")
		settings.Enabled = component.Enable(ids...)
	}
	return settings, nil
}

// reportConfigError prints manifest problems as diagnostics.
func reportConfigError(cmd *cobra.Command, err error) error {
	bag := diag.NewBag(100)
	bag.AddJoined(err, manifestName)
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, diagfmt.PrettyOpts{Color: colorEnabled()})
	return reportedError{err}
}

func printGenerated(cmd *cobra.Command, res *pipeline.Result) {
	out := cmd.OutOrStdout()
	var written, unchanged int
	for _, br := range res.Blocks {
		for _, a := range []*pipeline.Artifact{&br.RTL, br.RAL} {
			if a == nil {
				continue
			}
			if a.Written {
				written++
				fmt.Fprintf(out, "wrote %s\n", relPath(a.Path))
			} else {
				unchanged++
			}
		}
	}
	fmt.Fprintf(out, "%d register block(s): %d file(s) written, %d unchanged\n", len(res.Blocks), written, unchanged)
}

func listFeatures(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, id := range featureIDs() {
		fmt.Fprintln(out, id)
	}
	return nil
}

func relPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(wd, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}
