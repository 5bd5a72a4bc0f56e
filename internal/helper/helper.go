package helper

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ResolveEnv returns the content of the environment variable NAME if in has
// the form "ENV:NAME", and in itself otherwise.
func ResolveEnv(in string) string {
	if strings.HasPrefix(in, "ENV:") {
		return os.Getenv(in[4:])
	}
	return in
}

func SetDefaultStringIfEmpty(value, defaultValue, field, kind string) string {
	if len(value) == 0 {
		log.WithFields(log.Fields{"kind": kind, "field": field}).Debugf("no value given, assuming default %q", defaultValue)
		return defaultValue
	}
	return value
}
