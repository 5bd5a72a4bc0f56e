package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mittwald/keepdisk/internal/config"
	"github.com/mittwald/keepdisk/pkg/probe"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type State int32

const (
	Initializing State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Controller drives a probe scheduler through its lifecycle, either in the
// foreground or on behalf of a service manager. A Controller is started at
// most once.
type Controller struct {
	cfg      config.Volume
	fs       afero.Fs
	capacity probe.CapacityFunc
	interval time.Duration
	logger   *log.Entry

	mu           sync.Mutex
	state        State
	scheduler    *probe.Scheduler
	cancelStatus context.CancelFunc
	startErr     error
	stopped      chan struct{}
}

type Option func(*Controller)

func WithFs(fs afero.Fs) Option {
	return func(c *Controller) { c.fs = fs }
}

func WithCapacity(f probe.CapacityFunc) Option {
	return func(c *Controller) { c.capacity = f }
}

// WithInterval overrides the configured interval with a finer one.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

func WithLogger(l *log.Entry) Option {
	return func(c *Controller) { c.logger = l }
}

func NewController(cfg config.Volume, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		interval: time.Duration(cfg.Interval) * time.Second,
		logger:   log.WithField("kind", "lifecycle"),
		state:    Initializing,
		stopped:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start validates the volume and starts probing. On failure the controller
// ends up Stopped and the error is returned.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Initializing {
		return errors.Errorf("cannot start from state %s", c.state)
	}

	c.logger.WithFields(log.Fields{"drive": c.cfg.Drive, "interval": c.interval}).
		Infof("keepdisk starting. Monitoring volume: %s, interval: %s", c.cfg.Drive, c.interval)

	scheduler, err := probe.StartScheduler(probe.SchedulerConfig{
		Volume:   c.cfg.Drive,
		Interval: c.interval,
		Fs:       c.fs,
		Capacity: c.capacity,
		Logger:   c.logger.WithField("kind", "probe"),
	})
	if err != nil {
		c.state = Stopped
		c.startErr = errors.Wrap(err, "failed to start probe scheduler")
		close(c.stopped)
		c.logger.WithError(err).Error("failed to start")
		return c.startErr
	}

	c.scheduler = scheduler
	c.state = Running

	if c.cfg.StatusPort > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancelStatus = cancel
		go c.serveStatus(ctx)
	}

	c.logger.Info("keepdisk started successfully")
	return nil
}

func (c *Controller) serveStatus(ctx context.Context) {
	l := c.logger.WithField("port", c.cfg.StatusPort)
	l.Infof("status server listens on port %d", c.cfg.StatusPort)

	if err := probe.RunStatusServer(ctx, c, c.cfg.StatusPort); err != nil {
		l.WithError(err).Error("status server stopped with error")
	}
}

// Stop stops probing and waits for a running probe to finish. Calling Stop
// on a controller that is already stopping or stopped does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	switch c.state {
	case Initializing:
		c.state = Stopped
		close(c.stopped)
		c.mu.Unlock()
		return
	case Stopping, Stopped:
		c.mu.Unlock()
		return
	}

	c.state = Stopping
	scheduler, cancelStatus := c.scheduler, c.cancelStatus
	c.mu.Unlock()

	c.logger.Info("keepdisk stopping")

	scheduler.Stop()
	if cancelStatus != nil {
		cancelStatus()
	}

	c.mu.Lock()
	c.state = Stopped
	close(c.stopped)
	c.mu.Unlock()

	c.logger.Info("keepdisk stopped successfully")
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the controller reached Stopped.
func (c *Controller) Done() <-chan struct{} {
	return c.stopped
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Running && c.scheduler.Running()
}

func (c *Controller) Last() *probe.Result {
	c.mu.Lock()
	scheduler := c.scheduler
	c.mu.Unlock()

	if scheduler == nil {
		return nil
	}
	return scheduler.Last()
}

// RunForeground starts probing and blocks until an interrupt arrives or ctx
// is cancelled, then stops.
func (c *Controller) RunForeground(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := c.Start(); err != nil {
		return err
	}

	c.logger.Info("Press Ctrl+C to exit...")

	select {
	case <-ctx.Done():
		c.logger.Info("received interrupt")
		c.Stop()
	case <-c.stopped:
	}

	<-c.stopped
	return nil
}

// RunAsService hands the start and stop callbacks to host and returns when
// the host's event loop returns. A failed start is returned even if the host
// swallowed it.
func (c *Controller) RunAsService(host ServiceHost) error {
	defer c.Stop()

	if err := host.Run(c.Start, c.Stop); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startErr
}
