package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-g-everett/ledkey/stream"
)

type fakePlayer struct {
	names   []string
	playing string
	snapped bool
	calls   []string
}

func (p *fakePlayer) Names() []string { return p.names }

func (p *fakePlayer) Has(name string) bool {
	for _, n := range p.names {
		if n == name {
			return true
		}
	}
	return false
}

func (p *fakePlayer) Play(name string) error {
	p.calls = append(p.calls, "play "+name)
	p.playing = name
	return nil
}

func (p *fakePlayer) Stop(name string, snap bool) error {
	p.calls = append(p.calls, fmt.Sprintf("stop %s %v", name, snap))
	if p.playing != name {
		return stream.ErrNotPlaying
	}
	p.snapped = snap
	return nil
}

func newTestApi() (*fakePlayer, http.Handler) {
	p := &fakePlayer{names: []string{"glow", "sweep"}}
	a := NewApi(p, func(fn func()) bool { fn(); return true }, "")
	return p, a.Handler()
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestList(t *testing.T) {
	_, h := newTestApi()
	rec := do(h, http.MethodGet, "/animations")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Animations []string `json:"animations"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Animations) != 2 || body.Animations[1] != "sweep" {
		t.Errorf("animations = %v", body.Animations)
	}
}

func TestRunAndOver(t *testing.T) {
	p, h := newTestApi()

	tests := []struct {
		method, target string
		want           int
	}{
		{http.MethodPost, "/animations/missing/run", http.StatusNotFound},
		{http.MethodPost, "/animations/glow/over", http.StatusConflict},
		{http.MethodPost, "/animations/glow/run", http.StatusAccepted},
		{http.MethodPost, "/animations/glow/over?snap=maybe", http.StatusBadRequest},
		{http.MethodPost, "/animations/glow/over?snap=false", http.StatusOK},
		{http.MethodGet, "/animations/glow/run", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		if rec := do(h, tt.method, tt.target); rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.target, rec.Code, tt.want)
		}
	}
	if p.playing != "glow" || p.snapped {
		t.Errorf("player = %+v", p)
	}
	want := []string{"stop glow true", "play glow", "stop glow false"}
	if fmt.Sprint(p.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", p.calls, want)
	}
}

func TestStoppedLoop(t *testing.T) {
	p := &fakePlayer{names: []string{"glow"}}
	h := NewApi(p, func(func()) bool { return false }, "").Handler()

	for _, target := range []string{"/animations/glow/run", "/animations/glow/over"} {
		if rec := do(h, http.MethodPost, target); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("POST %s = %d, want %d", target, rec.Code, http.StatusServiceUnavailable)
		}
	}
	if rec := do(h, http.MethodGet, "/animations"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /animations = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if len(p.calls) != 0 {
		t.Errorf("calls = %v, want none", p.calls)
	}
}
