package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/mittwald/keepdisk/internal/helper"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LoadFile decodes the HCL file (or every .hcl file in the directory) at
// configPath on top of the receiver. Later files override earlier ones.
func (v *Volume) LoadFile(configPath string) error {
	configPath = strings.TrimRight(configPath, "/")

	matches, err := findInPath(configPath)
	if err != nil {
		return errors.Wrapf(err, "failed to look up configuration in %q", configPath)
	}

	for _, m := range matches {
		log.Infof("found config file: %s", m)

		contents, err := os.ReadFile(m)
		if err != nil {
			return errors.Wrapf(err, "failed to read configuration file %q", m)
		}

		if err := hcl.Unmarshal(contents, v); err != nil {
			return errors.Wrapf(err, "could not parse configuration file %q", m)
		}
	}

	return nil
}

// ResolveEnv replaces every "ENV:NAME" string value by the content of the
// named environment variable.
func (v *Volume) ResolveEnv() {
	v.Drive = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(v.Drive), DefaultDrive(), "drive", "volume")
	v.PIDFile = helper.ResolveEnv(v.PIDFile)
	v.LogLevel = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(v.LogLevel), DefaultLogLevel, "logLevel", "volume")
	v.FallbackLogFile = helper.ResolveEnv(v.FallbackLogFile)
}

func (v Volume) Validate() error {
	if strings.TrimSpace(v.Drive) == "" {
		return errors.New("no drive given")
	}

	if v.Interval <= 0 {
		return errors.Errorf("interval must be a positive number of seconds, got %d", v.Interval)
	}

	if v.StatusPort < 0 || v.StatusPort > 65535 {
		return errors.Errorf("status port %d is out of range", v.StatusPort)
	}

	if _, err := log.ParseLevel(v.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", v.LogLevel)
	}

	return nil
}
