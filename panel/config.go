package panel

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// EnvFirmware is the environment variable consulted for the firmware variant.
const EnvFirmware = "EINK_FIRMWARE"

// DefaultConfigPaths are the config files searched, in order, for a
// "firmware=" key.
var DefaultConfigPaths = []string{"/etc/goeink/eink.conf", "./eink.conf"}

// Config resolves the active firmware variant. An explicit SetFirmware wins
// over the environment, which wins over the config files. There is no built-in
// default: when nothing is configured Firmware returns ErrConfiguration.
type Config struct {
	// LookupEnv reads the environment. os.LookupEnv when nil.
	LookupEnv func(string) (string, bool)
	// Paths are the config files to search. DefaultConfigPaths when nil.
	Paths []string

	mu       sync.Mutex
	explicit *Firmware
}

// DefaultConfig is the process-wide configuration.
var DefaultConfig = &Config{}

// SetFirmware pins the firmware variant, overriding environment and files.
func (c *Config) SetFirmware(f Firmware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.explicit = &f
}

// SetFirmwareString parses s and pins the result.
func (c *Config) SetFirmwareString(s string) error {
	f, err := ParseFirmware(s)
	if err != nil {
		return err
	}
	c.SetFirmware(f)
	return nil
}

// Firmware returns the configured variant.
func (c *Config) Firmware() (Firmware, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.explicit != nil {
		return *c.explicit, nil
	}

	lookup := c.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvFirmware); ok && v != "" {
		return ParseFirmware(v)
	}

	paths := c.Paths
	if paths == nil {
		paths = DefaultConfigPaths
	}
	for _, p := range paths {
		v, ok, err := readFirmwareKey(p)
		if err != nil {
			return 0, err
		}
		if ok {
			return ParseFirmware(v)
		}
	}
	return 0, fmt.Errorf("%w: e-ink display configuration not found; set %s to EPD128x250 or EPD240x416, or add firmware=EPD128x250 to one of %s",
		ErrConfiguration, EnvFirmware, strings.Join(paths, ", "))
}

// Spec returns the geometry of the configured variant.
func (c *Config) Spec() (Spec, error) {
	f, err := c.Firmware()
	if err != nil {
		return Spec{}, err
	}
	return f.Spec(), nil
}

// readFirmwareKey scans a key=value file for the first non-empty firmware key.
// A missing file is not an error.
func readFirmwareKey(path string) (string, bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: os.Open(%q) = %v", ErrConfiguration, path, err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(line, "firmware=") && !strings.HasPrefix(line, "FIRMWARE=") {
			continue
		}
		if v := strings.TrimSpace(line[len("firmware="):]); v != "" {
			return v, true, nil
		}
	}
	if err := s.Err(); err != nil {
		return "", false, fmt.Errorf("%w: reading %q: %v", ErrConfiguration, path, err)
	}
	return "", false, nil
}
