//go:build !windows

package lifecycle

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	log "github.com/sirupsen/logrus"
)

// systemdHost speaks the sd_notify protocol. Outside of systemd the
// notifications are silently dropped, which makes it usable under any init
// system that stops services with SIGTERM.
type systemdHost struct {
	name    string
	signals <-chan os.Signal
	notify  func(state string) (bool, error)
}

func DefaultServiceHost(name string) ServiceHost {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return &systemdHost{
		name:    name,
		signals: signals,
		notify: func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		},
	}
}

// RunningUnderServiceManager reports whether the process was launched by
// the Windows service control manager. It is always false here.
func RunningUnderServiceManager() bool {
	return false
}

func (h *systemdHost) Run(onStart func() error, onStop func()) error {
	l := log.WithFields(log.Fields{"kind": "service", "name": h.name})

	if err := onStart(); err != nil {
		return err
	}
	h.sendNotify(l, daemon.SdNotifyReady)

	s := <-h.signals
	l.WithField("signal", s.String()).Info("received stop request from service manager")

	h.sendNotify(l, daemon.SdNotifyStopping)
	onStop()
	return nil
}

func (h *systemdHost) sendNotify(l *log.Entry, state string) {
	sent, err := h.notify(state)
	if err != nil {
		l.WithError(err).Warnf("failed to notify service manager about %q", state)
		return
	}
	if sent {
		l.Debugf("notified service manager: %s", state)
	}
}
