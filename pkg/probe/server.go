package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// StatusSource is implemented by Scheduler.
type StatusSource interface {
	Running() bool
	Last() *Result
}

type Handler struct {
	source StatusSource
}

func NewStatusHandler(source StatusSource) *Handler {
	return &Handler{source: source}
}

func (h *Handler) HandleStatus(res http.ResponseWriter, req *http.Request) {
	response := StatusResponse{
		Running: h.source.Running(),
		Last:    h.source.Last(),
	}

	success := response.Running && response.Last != nil && response.Last.OK

	switch {
	case !response.Running:
		response.Message = "probe scheduler is not running"
	case response.Last == nil:
		response.Message = "no probe finished yet"
	case response.Last.Err != nil:
		response.Message = response.Last.Err.Error()
	}

	if response.Last != nil && response.Last.WriteErr != nil {
		response.Warning = response.Last.WriteErr.Error()
	}

	res.Header().Set("Content-Type", "application/json")

	if !success {
		res.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = json.NewEncoder(res).Encode(&response)
}

func (h *Handler) Router() http.Handler {
	m := mux.NewRouter()
	m.Path("/status").Methods(http.MethodGet).HandlerFunc(h.HandleStatus)
	return m
}

// RunStatusServer serves the status endpoint on port until ctx is done.
func RunStatusServer(ctx context.Context, source StatusSource, port int) error {
	server := http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewStatusHandler(source).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.WithField("kind", "status").Info("shutting down status server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}

	return nil
}
