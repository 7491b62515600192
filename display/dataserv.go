package ostinato

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket for change and step events
// - Version for programmatic use
// - Composition digest and transport control
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler).Methods(http.MethodGet)
	api.HandleFunc("/composition", v.CompositionHandler).Methods(http.MethodGet)
	api.HandleFunc("/transport", v.TransportHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/system", v.SystemHandler).Methods(http.MethodGet)

	return r
}

// Handler is the traced monitor handler.
func (v *View) Handler() http.Handler {
	return otelhttp.NewHandler(v.SetupMux(), "ostinato-monitor")
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

// CompositionHandler returns the same digest getComposition produces.
func (v *View) CompositionHandler(w http.ResponseWriter, r *http.Request) {
	res := v.Store.GetComposition(r.Context())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

type transportRequest struct {
	Action string   `json:"action"` // play, pause, resume, stop, reload
	Tempo  *float64 `json:"tempo,omitempty"`
}

// TransportHandler reports the scheduler position, POST drives it.
func (v *View) TransportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, v.Scheduler.Position())
		return
	}

	var req transportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Tempo != nil {
		if err := v.Scheduler.SetTempo(*req.Tempo); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	switch req.Action {
	case "play":
		v.Scheduler.Play()
	case "pause":
		v.Scheduler.Pause()
	case "resume":
		v.Scheduler.Resume()
	case "stop":
		v.Scheduler.Stop()
	case "reload":
		if err := v.Reload(r.Context()); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	case "":
		if req.Tempo == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "action or tempo is required"})
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid action: " + req.Action})
		return
	}

	writeJSON(w, http.StatusOK, v.Scheduler.Position())
}

// SystemInfo describes the running configuration.
type SystemInfo struct {
	Version  string `json:"version"`
	Storage  string `json:"storage"`
	Voice    string `json:"voice"`
	MIDIPort string `json:"midiPort,omitempty"`
	Clients  int    `json:"clients"`
}

func (v *View) SystemHandler(w http.ResponseWriter, r *http.Request) {
	info := SystemInfo{
		Version: Version,
		Storage: v.Store.Storage.Type(),
		Voice:   v.Scheduler.Voice.Type(),
		Clients: v.Hub.Clients(),
	}
	v.getMIDISystemInfo(&info)
	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
