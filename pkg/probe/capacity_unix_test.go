//go:build !windows

package probe_test

import (
	"path/filepath"
	"testing"

	"github.com/mittwald/keepdisk/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeCapacity(t *testing.T) {
	c, err := probe.VolumeCapacity(t.TempDir())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Total, c.Available)

	_, err = probe.VolumeCapacity(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorContains(t, err, "could not get capacity of")
}
