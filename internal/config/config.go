// Package config loads the project information for a site source tree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// FileName is the project configuration file expected in the source directory.
const FileName = "config.yaml"

// Info is the project metadata available to every template.
type Info struct {
	Title       string         `yaml:"title"`
	URL         string         `yaml:"url,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Author      string         `yaml:"author,omitempty"`
	TimeFormat  string         `yaml:"time_format,omitempty"`
	Params      map[string]any `yaml:"params,omitempty"`
}

// Load reads and parses config.yaml from the source directory.
//
// A .env file next to the working directory is loaded first (best effort,
// existing process variables win), then environment references in the YAML
// are expanded before parsing.
func Load(sourceDir string) (*Info, error) {
	loadEnvFile()

	path := filepath.Join(sourceDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, outcome.ConfigError(path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var info Info
	if err := yaml.Unmarshal([]byte(expanded), &info); err != nil {
		return nil, &outcome.StepError{Kind: outcome.KindConfig, Path: path, Line: yamlErrLine(err), Err: err}
	}

	applyDefaults(&info)
	return &info, nil
}

func applyDefaults(info *Info) {
	if info.Title == "" {
		info.Title = "Untitled Site"
	}
	if info.TimeFormat == "" {
		info.TimeFormat = "January 2, 2006"
	}
}

// loadEnvFile loads environment variables from .env/.env.local (best effort).
// Existing process environment variables are never overwritten.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return
		}
	}
}

var yamlLineRe = regexp.MustCompile(`(?:yaml: )?line (\d+):`)

// yamlErrLine extracts the line number from a yaml.v3 error message, 0 if absent.
func yamlErrLine(err error) int {
	if err == nil {
		return 0
	}
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
