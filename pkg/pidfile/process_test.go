package pidfile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessAliveForOwnProcess(t *testing.T) {
	assert.True(t, processAlive(os.Getpid()))
}

func TestProcessAliveForUnknownPID(t *testing.T) {
	assert.False(t, processAlive(999999999))
}
