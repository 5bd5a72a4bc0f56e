package lifecycle

// ServiceHost runs the event loop of a host service manager. It calls
// onStart when the service is started and onStop when it is asked to stop.
// An error from onStart is reported to the service manager as a start
// failure.
type ServiceHost interface {
	Run(onStart func() error, onStop func()) error
}

// ServiceHostFunc adapts a plain function to ServiceHost.
type ServiceHostFunc func(onStart func() error, onStop func()) error

func (f ServiceHostFunc) Run(onStart func() error, onStop func()) error {
	return f(onStart, onStop)
}
