package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"svreg/internal/component"
	"svreg/internal/diag"
	"svreg/internal/ident"
	"svreg/internal/regmap"
)

const manifestName = "svreg.toml"

const noManifestMessage = "no " + manifestName + " found\nplease name the register maps explicitly, e.g.:\n  svreg generate path/to/register_map.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config manifestConfig
	// Settings is Config resolved against the defaults.
	Settings projectSettings
}

type manifestConfig struct {
	RegisterMaps  []string            `toml:"register_maps"`
	Configuration configurationConfig `toml:"configuration"`
	Output        outputConfig        `toml:"output"`
	Features      featuresConfig      `toml:"features"`
}

type configurationConfig struct {
	BusWidth            int64  `toml:"bus_width"`
	AddressWidth        int64  `toml:"address_width"`
	ArrayPortFormat     string `toml:"array_port_format"`
	Protocol            string `toml:"protocol"`
	FoldSVInterfacePort bool   `toml:"fold_sv_interface_port"`
}

type outputConfig struct {
	Dir string `toml:"dir"`
}

type featuresConfig struct {
	Enable []string `toml:"enable"`
}

// projectSettings is what a generate run needs, with paths made absolute.
type projectSettings struct {
	Maps      []string
	Config    regmap.Configuration
	Enabled   component.EnabledSet
	OutputDir string
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := loadManifestFile(path)
	return m, true, err
}

func loadManifestFile(path string) (*projectManifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, &diag.IOError{Code: diag.IOLoadFileError, Path: path, Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, diag.Configf(diag.CfgUnknownKey, path, "unknown keys: %s", strings.Join(keys, ", "))
	}
	m := &projectManifest{Path: path, Root: filepath.Dir(path), Config: cfg}
	settings, err := m.resolve(meta)
	if err != nil {
		return nil, err
	}
	m.Settings = settings
	return m, nil
}

// resolve applies the manifest over the defaults; keys that are absent
// keep their default.
func (m *projectManifest) resolve(meta toml.MetaData) (projectSettings, error) {
	s := projectSettings{
		Config:    regmap.DefaultConfiguration(),
		Enabled:   component.All(),
		OutputDir: m.Root,
	}
	c := m.Config.Configuration
	var errs []error
	if meta.IsDefined("configuration", "bus_width") {
		n, err := m.toInt("bus_width", c.BusWidth)
		errs = append(errs, err)
		s.Config.BusWidth = n
	}
	if meta.IsDefined("configuration", "address_width") {
		n, err := m.toInt("address_width", c.AddressWidth)
		errs = append(errs, err)
		s.Config.AddressWidth = n
	}
	if meta.IsDefined("configuration", "array_port_format") {
		f, err := ident.ParseFormat(c.ArrayPortFormat)
		if err != nil {
			errs = append(errs, diag.Configf(diag.CfgUnknownArrayFormat, m.Path, "%v", err))
		}
		s.Config.ArrayPortFormat = f
	}
	if meta.IsDefined("configuration", "protocol") {
		p, err := regmap.ParseProtocol(c.Protocol)
		if err != nil {
			errs = append(errs, err)
		}
		s.Config.Protocol = p
	}
	if meta.IsDefined("configuration", "fold_sv_interface_port") {
		s.Config.FoldInterfacePort = c.FoldSVInterfacePort
	}

	if meta.IsDefined("output", "dir") {
		dir := strings.TrimSpace(m.Config.Output.Dir)
		if dir == "" {
			errs = append(errs, diag.Configf(diag.CfgMissingValue, m.Path, "[output].dir is empty"))
		}
		s.OutputDir = m.abs(dir)
	}

	for _, p := range m.Config.RegisterMaps {
		s.Maps = append(s.Maps, m.abs(p))
	}

	if meta.IsDefined("features", "enable") {
		ids := make([]string, len(m.Config.Features.Enable))
		for i, id := range m.Config.Features.Enable {
			ids[i] = norm.NFC.String(strings.TrimSpace(id))
		}
		s.Enabled = component.Enable(ids...)
	}
	return s, errors.Join(errs...)
}

func (m *projectManifest) toInt(key string, v int64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, diag.Configf(diag.CfgInvalidSize, m.Path, "[configuration].%s out of range: %d", key, v)
	}
	return n, nil
}

func (m *projectManifest) abs(p string) string {
	p = filepath.FromSlash(norm.NFC.String(strings.TrimSpace(p)))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
