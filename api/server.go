package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/matt-g-everett/ledkey/stream"
)

// ErrStopped is returned when the goroutine that owns the player no longer
// accepts work.
var ErrStopped = errors.New("animation loop stopped")

// Player is the animation control the Api exposes.
type Player interface {
	Names() []string
	Has(name string) bool
	Play(name string) error
	Stop(name string, snap bool) error
}

// Api serves the animation controls and the client pages.
type Api struct {
	player Player
	post   func(func()) bool
	static string
}

// NewApi creates an Api. post runs a function on the goroutine that owns
// player and reports false if it never will.
func NewApi(player Player, post func(func()) bool, static string) *Api {
	a := new(Api)
	a.player = player
	a.post = post
	a.static = static
	return a
}

// Handler returns the routes:
//
//	GET  /animations
//	POST /animations/{name}/run
//	POST /animations/{name}/over[?snap=false]
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /animations", a.list)
	mux.HandleFunc("POST /animations/{name}/run", a.run)
	mux.HandleFunc("POST /animations/{name}/over", a.over)
	if a.static != "" {
		mux.Handle("/", http.FileServer(http.Dir(a.static)))
	}
	return mux
}

// Serve listens on addr.
func (a *Api) Serve(addr string) error {
	log.Printf("Listening on %s...", addr)
	return http.ListenAndServe(addr, a.Handler())
}

func (a *Api) list(w http.ResponseWriter, r *http.Request) {
	var names []string
	err := a.call(func() error {
		names = a.player.Names()
		return nil
	})
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"animations": names})
}

func (a *Api) run(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !a.player.Has(name) {
		writeError(w, http.StatusNotFound, stream.ErrUnknownAnimation)
		return
	}
	if err := a.call(func() error { return a.player.Play(name) }); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"animation": name, "state": "running"})
}

func (a *Api) over(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !a.player.Has(name) {
		writeError(w, http.StatusNotFound, stream.ErrUnknownAnimation)
		return
	}
	snap := true
	if v := r.URL.Query().Get("snap"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap = b
	}

	err := a.call(func() error { return a.player.Stop(name, snap) })
	switch {
	case errors.Is(err, stream.ErrNotPlaying):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeError(w, statusOf(err), err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"animation": name, "state": "completed"})
	}
}

// call runs fn on the player's goroutine and waits for its result.
func (a *Api) call(fn func() error) error {
	errc := make(chan error, 1)
	if !a.post(func() { errc <- fn() }) {
		return ErrStopped
	}
	return <-errc
}

func statusOf(err error) int {
	if errors.Is(err, ErrStopped) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
