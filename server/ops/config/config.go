package config

import (
	"bytes"
	"flag"
	"io"
	"os"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"gopkg.in/yaml.v3"
)

var configFile = flag.String("config", "", "path to a config yaml")

var ErrInvalidConfig = errors.New("invalid config", j.C("ERR_7e02c4b1f9d6a358"))

type Config struct {
	Distributions []Distribution `yaml:"distributions"`
}

type Distribution struct {
	Name string `yaml:"name"`
	// Seed fixes the draw sequence, a nil Seed seeds from the clock.
	Seed    *uint64 `yaml:"seed"`
	Entries []Entry `yaml:"entries"`
}

type Entry struct {
	Key    string `yaml:"key"`
	Weight int64  `yaml:"weight"`
}

func (c Config) Validate() error {
	seen := make(map[string]bool)
	for i, d := range c.Distributions {
		if d.Name == "" {
			return errors.Wrap(ErrInvalidConfig, "missing name", j.KV("index", i))
		}
		if seen[d.Name] {
			return errors.Wrap(ErrInvalidConfig, "duplicate name", j.KV("name", d.Name))
		}
		seen[d.Name] = true
	}
	return nil
}

var config = Config{}

func MustLoadConfig() {
	if *configFile == "" {
		return
	}
	c, err := os.ReadFile(*configFile)
	if err != nil {
		panic(err)
	}
	config, err = decodeConfig(c)
	if err != nil {
		panic(err)
	}
}

func GetConfig() Config {
	return config
}

func decodeConfig(content []byte) (Config, error) {
	var c Config
	d := yaml.NewDecoder(bytes.NewReader(content))
	d.KnownFields(true)
	err := d.Decode(&c)
	if errors.Is(err, io.EOF) {
		return Config{}, nil
	} else if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
