// Package config resolves run settings from flags, the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/skdltmxn/wiztype/memview"
	"github.com/skdltmxn/wiztype/remote"
	"github.com/skdltmxn/wiztype/rtti"
)

// DefaultProcess is the executable name of the game client.
const DefaultProcess = "WizardGraphicalClient.exe"

const envPrefix = "wiztype"

// Setting keys. Each is also read from WIZTYPE_<KEY> with dashes as
// underscores.
const (
	KeyProcess        = "process"
	KeyEncoding       = "encoding"
	KeyMaxVectorSize  = "max-vector-size"
	KeyPayloadNodes   = "payload-nodes"
	KeySignature      = "signature"
	KeyCallDispOffset = "call-disp-offset"
	KeyCallLength     = "call-length"
	KeyLeaOffset      = "lea-offset"
	KeyLeaDispOffset  = "lea-disp-offset"
	KeyLeaLength      = "lea-length"
)

// Config is the resolved configuration of one run.
type Config struct {
	// Process is the executable name of the target.
	Process string

	// Options controls locating and decoding the registry.
	Options rtti.Options
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	def := rtti.DefaultOptions()

	v.SetDefault(KeyProcess, DefaultProcess)
	v.SetDefault(KeyEncoding, def.Encoding)
	v.SetDefault(KeyMaxVectorSize, def.MaxVector)
	v.SetDefault(KeyPayloadNodes, def.Payload.String())
	v.SetDefault(KeySignature, def.Signature)
	v.SetDefault(KeyCallDispOffset, def.CallDispOffset)
	v.SetDefault(KeyCallLength, def.CallLength)
	v.SetDefault(KeyLeaOffset, def.LeaOffset)
	v.SetDefault(KeyLeaDispOffset, def.LeaDispOffset)
	v.SetDefault(KeyLeaLength, def.LeaLength)
}

// DefaultDir returns the directory searched for config.yaml.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wiztype"), nil
}

// Init binds v to the environment and reads cfgFile, or config.yaml from
// DefaultDir when cfgFile is empty. A missing default file is not an error.
// It returns the file read, if any.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return "", err
		}
		v.AddConfigPath(dir)
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("config: failed to read %s: %w", cfgFile, err)
	}
	return v.ConfigFileUsed(), nil
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Process: v.GetString(KeyProcess),
		Options: rtti.Options{
			Signature:      v.GetString(KeySignature),
			CallDispOffset: v.GetInt64(KeyCallDispOffset),
			CallLength:     v.GetInt64(KeyCallLength),
			LeaOffset:      v.GetInt64(KeyLeaOffset),
			LeaDispOffset:  v.GetInt64(KeyLeaDispOffset),
			LeaLength:      v.GetInt64(KeyLeaLength),
			Encoding:       v.GetString(KeyEncoding),
			MaxVector:      v.GetInt(KeyMaxVectorSize),
		},
	}

	if cfg.Process == "" {
		return nil, fmt.Errorf("config: %s must not be empty", KeyProcess)
	}
	if cfg.Options.MaxVector <= 0 {
		return nil, fmt.Errorf("config: %s must be positive, got %d", KeyMaxVectorSize, cfg.Options.MaxVector)
	}
	if _, err := memview.NewTextDecoder(cfg.Options.Encoding); err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyEncoding, err)
	}
	if _, err := remote.ParsePattern(cfg.Options.Signature); err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeySignature, err)
	}

	payload, err := rtti.ParsePayloadNodes(v.GetString(KeyPayloadNodes))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyPayloadNodes, err)
	}
	cfg.Options.Payload = payload

	return cfg, nil
}
