package health

import (
	"net/http"
)

type handler struct{}

func New() *handler {
	return &handler{}
}

// Handler reports process liveness only, the node is not contacted.
func (h *handler) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
