package sync

import (
	"bytes"
	"embed"
	"io"
	"os"
)

//go:embed defaults.yaml
var embeddedFiles embed.FS

type ConfigFile struct {
	Name   string
	Reader io.Reader
	Length int
}

func newConfigFile(name string, b []byte) ConfigFile {
	return ConfigFile{
		Name:   name,
		Reader: bytes.NewReader(b),
		Length: len(b),
	}
}

// DefaultsConfigFile returns the embedded defaults every configuration is layered on.
func DefaultsConfigFile() (ConfigFile, error) {
	var result ConfigFile
	b, err := embeddedFiles.ReadFile("defaults.yaml")
	if err == nil {
		result = newConfigFile("defaults.yaml", b)
	}
	return result, err
}

// MustFindConfigFile reads a configuration file from disk.
func MustFindConfigFile(name string) (ConfigFile, error) {
	var result ConfigFile
	b, err := os.ReadFile(name)
	if err == nil {
		result = newConfigFile(name, b)
	}
	return result, err
}
