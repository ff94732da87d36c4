package sync

import (
	"fmt"
	"os"
)

const (
	// ConfigPathEnvVar names an optional YAML file layered over the defaults.
	ConfigPathEnvVar = "FIELDSYNC_CONFIG"
	// CompositeEnvVarName is a JSON object env var whose keys take precedence over the environment.
	CompositeEnvVarName = "FIELDSYNC"
)

type configOptions struct {
	files    []string
	envVar   string
	extended []ConfigFile
}

// ConfigOption is a functional option for configuring LoadConfigFromEnvironment.
type ConfigOption func(*configOptions)

// ConfigWithFile layers the YAML file at path over the defaults.
// Empty paths are ignored so flag values can be passed straight through.
func ConfigWithFile(path string) ConfigOption {
	return func(o *configOptions) {
		if path != "" {
			o.files = append(o.files, path)
		}
	}
}

// ConfigWithSource layers an already opened configuration over the defaults.
func ConfigWithSource(file ConfigFile) ConfigOption {
	return func(o *configOptions) {
		o.extended = append(o.extended, file)
	}
}

// ConfigWithCompositeEnvVar overrides the name of the JSON composite env var.
func ConfigWithCompositeEnvVar(name string) ConfigOption {
	return func(o *configOptions) {
		o.envVar = name
	}
}

// LoadConfigFromEnvironment builds the process configuration from the embedded defaults,
// any configured files and the environment. It is meant to be called once at startup.
func LoadConfigFromEnvironment(opts ...ConfigOption) (Config, error) {
	options := configOptions{envVar: CompositeEnvVarName}
	for _, opt := range opts {
		opt(&options)
	}
	if len(options.files) == 0 {
		if p := os.Getenv(ConfigPathEnvVar); p != "" {
			options.files = append(options.files, p)
		}
	}

	var result Config
	defaults, err := DefaultsConfigFile()
	if err != nil {
		return result, fmt.Errorf("failed to read defaults config file %w", err)
	}
	sources := []ConfigFile{defaults}
	for _, name := range options.files {
		f, err := MustFindConfigFile(name)
		if err != nil {
			return result, fmt.Errorf("failed to read config file %w", err)
		}
		sources = append(sources, f)
	}
	sources = append(sources, options.extended...)

	compositeEnvVar := LayeredEnvVar{JSONCompositeEnvVar{Parent: options.envVar}}
	result, err = YAMLConfigUnmarshaler{}.Unmarshal(compositeEnvVar, sources...)
	if err != nil {
		return result, fmt.Errorf("failed to load config %w", err)
	}
	return result, nil
}
