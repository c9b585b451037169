package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new svreg project",
	Long: `Initialize a new svreg project by creating a project manifest (svreg.toml)
and an example register map (register_map.toml). If [path] is omitted, the
current directory is initialized; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, manifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	created := []string{manifestName}
	mapPath := filepath.Join(target, "register_map.toml")
	if _, err := os.Stat(mapPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mapPath, []byte(defaultRegisterMap), 0o644); err != nil {
			return fmt.Errorf("failed to write register map: %w", err)
		}
		created = append(created, "register_map.toml")
	}

	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "initialized svreg project in %s\n", target)
		for _, f := range created {
			fmt.Fprintf(out, "  created %s\n", f)
		}
	}
	return nil
}

const defaultManifest = `register_maps = ["register_map.toml"]

[configuration]
bus_width = 32
address_width = 16
array_port_format = "packed"
protocol = "axi4lite"
fold_sv_interface_port = true

[output]
dir = "generated"
`

const defaultRegisterMap = `[[register_block]]
name = "block_0"
byte_size = 256

[[register_block.register]]
name = "control"
offset_address = 0x00
[[register_block.register.bit_field]]
name = "enable"
lsb = 0
type = "rw"
initial_value = 0
[[register_block.register.bit_field]]
name = "mode"
lsb = 4
width = 2
type = "rwl"
initial_value = 0
reference = "lock"

[[register_block.register]]
name = "status"
offset_address = 0x04
[[register_block.register.bit_field]]
name = "busy"
lsb = 0
type = "ro"

[[register_block.register]]
name = "lock"
offset_address = 0x08
[[register_block.register.bit_field]]
lsb = 0
type = "rw"
initial_value = 0

[[register_block.register]]
name = "data"
offset_address = 0x10
size = [4]
[[register_block.register.bit_field]]
name = "value"
lsb = 0
width = 8
sequence_size = 2
step = 16
type = "rwe"
initial_value = 0
`
