// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cybrota/avlmem/engine"
	"gopkg.in/yaml.v3"
)

const configFileName = ".avlmem.yaml"

type EngineConfig struct {
	DataDir        string `yaml:"data_dir"`
	FlushThreshold int    `yaml:"flush_threshold"`
}

type BloomConfig struct {
	Bits   uint `yaml:"bits"`
	Hashes uint `yaml:"hashes"`
}

type CacheConfig struct {
	Expiration time.Duration `yaml:"expiration"`
	Cleanup    time.Duration `yaml:"cleanup"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Bloom  BloomConfig  `yaml:"bloom"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

func defaultConfig() Config {
	dataDir := filepath.Join(".", ".avlmem")
	if homeDir, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(homeDir, ".avlmem", "data")
	}
	return Config{
		Engine: EngineConfig{
			DataDir:        dataDir,
			FlushThreshold: engine.DefaultFlushThreshold,
		},
		Cache: CacheConfig{
			Expiration: engine.DefaultCacheExpiration,
			Cleanup:    engine.DefaultCacheCleanup,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// applyDefaults fills settings left out of the file.
func (c *Config) applyDefaults() {
	def := defaultConfig()
	if c.Engine.DataDir == "" {
		c.Engine.DataDir = def.Engine.DataDir
	}
	if c.Engine.FlushThreshold <= 0 {
		c.Engine.FlushThreshold = def.Engine.FlushThreshold
	}
	if c.Cache.Expiration <= 0 {
		c.Cache.Expiration = def.Cache.Expiration
	}
	if c.Cache.Cleanup <= 0 {
		c.Cache.Cleanup = def.Cache.Cleanup
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	c.Engine.DataDir = expandHome(c.Engine.DataDir)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, configFileName), nil
}

// LoadConfig reads the YAML config at path, or ~/.avlmem.yaml when path is
// empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			return &config, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &config, nil
	}
	if err != nil {
		return &config, fmt.Errorf("failed to read config %s: %v", path, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return &config, fmt.Errorf("failed to parse config %s: %v", path, err)
	}
	loaded.applyDefaults()
	return &loaded, nil
}

func writeConfigFile(path string, config Config) error {
	data, err := yaml.Marshal(&config)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %v", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// EngineOptions maps the config onto engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Dir:             c.Engine.DataDir,
		FlushThreshold:  c.Engine.FlushThreshold,
		BloomBits:       c.Bloom.Bits,
		BloomHashes:     c.Bloom.Hashes,
		CacheExpiration: c.Cache.Expiration,
		CacheCleanup:    c.Cache.Cleanup,
	}
}

func displaySettings(path string) {
	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			fmt.Printf("❌ Failed to get config path: %v\n", err)
			return
		}
		path = p
	}

	configExists := true
	if _, err := os.Stat(path); os.IsNotExist(err) {
		configExists = false
		fmt.Printf("📝 Configuration file not found. Creating default configuration...\n\n")

		if err := writeConfigFile(path, defaultConfig()); err != nil {
			fmt.Printf("❌ Failed to create default config file: %v\n", err)
			return
		}
		fmt.Printf("✅ Created default configuration at: %s\n\n", path)
	}

	config, err := LoadConfig(path)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return
	}

	fmt.Printf("🔧 avlmem Configuration Settings\n")
	fmt.Printf("═══════════════════════════════════\n\n")

	if configExists {
		fmt.Printf("📍 Config file: %s\n", path)
	} else {
		fmt.Printf("📍 Config file: %s (newly created)\n", path)
	}

	fmt.Printf("📊 Current settings:\n\n")

	fmt.Printf("💾 %sEngine:%s\n", Green, Reset)
	fmt.Printf("  • %sdata_dir%s: %s\n", Green, Reset, config.Engine.DataDir)
	fmt.Printf("  • %sflush_threshold%s: %d\n", Green, Reset, config.Engine.FlushThreshold)
	fmt.Printf("    Memtable keys buffered before a segment is written\n\n")

	fmt.Printf("🌸 %sBloom filter:%s\n", Green, Reset)
	if config.Bloom.Bits == 0 || config.Bloom.Hashes == 0 {
		fmt.Printf("  • sized per segment for a 1%% false-positive rate\n\n")
	} else {
		fmt.Printf("  • %sbits%s: %d, %shashes%s: %d\n\n", Green, Reset, config.Bloom.Bits, Green, Reset, config.Bloom.Hashes)
	}

	fmt.Printf("⚡ %sLookup cache:%s\n", Green, Reset)
	fmt.Printf("  • %sexpiration%s: %s, %scleanup%s: %s\n\n", Green, Reset, config.Cache.Expiration, Green, Reset, config.Cache.Cleanup)

	fmt.Printf("📜 %sLog level%s: %s\n", Green, Reset, config.Log.Level)
}
