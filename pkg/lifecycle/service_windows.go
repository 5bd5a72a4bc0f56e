//go:build windows

package lifecycle

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/svc"
)

// startFailedExitCode is reported to the service control manager as the
// service specific exit code when onStart fails.
const startFailedExitCode = 1

type windowsHost struct {
	name string
}

func DefaultServiceHost(name string) ServiceHost {
	return &windowsHost{name: name}
}

// RunningUnderServiceManager reports whether the process was launched by
// the Windows service control manager.
func RunningUnderServiceManager() bool {
	isService, err := svc.IsWindowsService()
	return err == nil && isService
}

func (h *windowsHost) Run(onStart func() error, onStop func()) error {
	return svc.Run(h.name, &windowsHandler{
		onStart: onStart,
		onStop:  onStop,
		logger:  log.WithFields(log.Fields{"kind": "service", "name": h.name}),
	})
}

type windowsHandler struct {
	onStart func() error
	onStop  func()
	logger  *log.Entry
}

func (w *windowsHandler) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	const accepted = svc.AcceptStop | svc.AcceptShutdown

	changes <- svc.Status{State: svc.StartPending}

	if err := w.onStart(); err != nil {
		w.logger.WithError(err).Error("service start failed")
		changes <- svc.Status{State: svc.StopPending}
		return true, startFailedExitCode
	}

	changes <- svc.Status{State: svc.Running, Accepts: accepted}

	for c := range r {
		switch c.Cmd {
		case svc.Interrogate:
			changes <- c.CurrentStatus
		case svc.Stop, svc.Shutdown:
			w.logger.Info("received stop request from service control manager")
			changes <- svc.Status{State: svc.StopPending}
			w.onStop()
			return false, 0
		default:
			w.logger.Warnf("unexpected control request #%d", c.Cmd)
		}
	}

	w.onStop()
	return false, 0
}
