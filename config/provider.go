package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider is the read-only configuration surface consumed by the core packages.
type Provider interface {
	// Get returns the value stored under section.key or fallback when it is unset.
	Get(section, key, fallback string) string
}

// Viper reads values from the global viper registry populated by Setup.
type Viper struct{}

// Get implements Provider.
func (Viper) Get(section, key, fallback string) string {
	name := section + "." + key
	if !viper.IsSet(name) {
		return fallback
	}

	value := strings.TrimSpace(viper.GetString(name))
	if value == "" {
		return fallback
	}
	return value
}

// Static is a map-backed Provider keyed by "section.key".
type Static map[string]string

// Get implements Provider.
func (s Static) Get(section, key, fallback string) string {
	if value, ok := s[section+"."+key]; ok && value != "" {
		return value
	}
	return fallback
}

// Split breaks a dotted key constant into its section and key parts.
func Split(dotted string) (section, key string) {
	section, key, found := strings.Cut(dotted, ".")
	if !found {
		return "", dotted
	}
	return section, key
}

// String resolves a dotted key against p.
func String(p Provider, dotted, fallback string) string {
	section, key := Split(dotted)
	return p.Get(section, key, fallback)
}

// Int resolves a dotted key against p and parses it as an integer.
func Int(p Provider, dotted string, fallback int) int {
	raw := String(p, dotted, strconv.Itoa(fallback))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// Bool resolves a dotted key against p and parses it as a boolean.
func Bool(p Provider, dotted string, fallback bool) bool {
	raw := String(p, dotted, strconv.FormatBool(fallback))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}

// Millis resolves a dotted key holding milliseconds.
func Millis(p Provider, dotted string, fallback time.Duration) time.Duration {
	return time.Duration(Int(p, dotted, int(fallback/time.Millisecond))) * time.Millisecond
}

// Seconds resolves a dotted key holding seconds.
func Seconds(p Provider, dotted string, fallback time.Duration) time.Duration {
	return time.Duration(Int(p, dotted, int(fallback/time.Second))) * time.Second
}
