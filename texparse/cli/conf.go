package cli

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/texparse"
)

// loadConfig is a callback function used by cobra's initialization mechanism.
// Unfortunately we're not allowed a return value.
func loadConfig() {
	k := koanf.New(".") // '.' is hierarchy delimiter
	// We locate texparse configuration with an application-key of 'TEXPARSE'
	// and use YAML for config-files
	konf := koanfadapter.New(k, "TEXPARSE", []string{"yaml"})
	konf.InitDefaults()
	if err := mergeConfigFile(k); err != nil {
		tracing.Errorf(err.Error())
		texparse.Exit(1)
	}
	if err := mergeFlags(konf); err != nil {
		tracing.Errorf(err.Error())
		texparse.Exit(1)
	}
	if err := configureTracing(konf); err != nil {
		tracing.Errorf(err.Error())
		texparse.Exit(1)
	}
	texparse.Configuration = k // push the configuration to app-global scope
}

// mergeConfigFile loads the YAML file given with --config, or else
// config.yaml from the user's configuration directory. Values from the
// file are overridden by flags set explicitly.
func mergeConfigFile(k *koanf.Koanf) error {
	name, err := rootCmd.PersistentFlags().GetString("config")
	if err != nil {
		return err
	}
	if name == "" {
		if name = userConfigFile(appLocations()); name == "" {
			return nil
		}
	}
	if err := k.Load(file.Provider(name), yaml.Parser()); err != nil {
		return fmt.Errorf("reading configuration %s: %w", name, err)
	}
	tracing.Infof("configuration loaded from %s", name)
	return nil
}

func mergeFlags(konf *koanfadapter.KConf) error {
	flags := rootCmd.PersistentFlags()
	err := konf.Koanf().Load(posflag.Provider(flags, ".", konf.Koanf()), nil)
	if err != nil {
		return err
	}
	if logname := konf.GetString("logfile"); logname != "" && logname != "stderr" {
		if strings.Contains(logname, ":/") {
			konf.Set("tracing.destination", logname)
		} else {
			konf.Set("tracing.destination", "file://"+logname)
		}
	}
	return err
}

func configureTracing(konf *koanfadapter.KConf) error {
	if a := konf.GetString("tracing.adapter"); a != "" && a != "go" {
		tracing.Errorf("tracing adapter type '%s' currently not supported", a)
	}
	konf.Set("tracing.adapter", "go") // use Go builtin logging facilities
	paths := appLocations()
	if dest := konf.GetString("tracing.destination"); dest != "" {
		if !strings.Contains(dest, ":") && paths != nil && paths.LogDir() != "" {
			dest = "file://" + paths.LogDir() + "/" + dest
			konf.Set("tracing.destination", dest)
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Debugf("texparse %s", version)
	return nil
}

func appLocations() AppPaths {
	paths, err := DefaultAppPaths("texparse")
	if err != nil {
		tracing.Errorf("cannot configure paths: %v", err)
		return nil
	}
	return paths
}
