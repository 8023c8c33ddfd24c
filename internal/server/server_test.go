package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := New(Config{
		Store:   st,
		Hub:     NewHub(),
		Frames:  NewFrameBuffer(),
		Backend: "heuristic",
	})
	return srv, st
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["backend"] != "heuristic" {
		t.Errorf("expected backend heuristic, got %v", body["backend"])
	}

	req = httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", w.Code)
	}
}

func TestSessionsEndpoints(t *testing.T) {
	srv, st := newTestServer(t)

	id, err := st.Sessions().Start("heuristic")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	err = st.Tracks().Append(id, []store.TrackPoint{
		{FrameIndex: 0, HandIndex: 0, Finger: "index", XNorm: 0.5, YNorm: 0.5, DistanceNorm: 0.1},
	})
	if err != nil {
		t.Fatalf("append points: %v", err)
	}

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Sessions []store.Session `json:"sessions"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Sessions) != 1 || body.Sessions[0].ID != id {
			t.Errorf("expected single session %s, got %v", id, body.Sessions)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Session *store.Session `json:"session"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Session == nil || body.Session.Backend != "heuristic" {
			t.Errorf("expected backend heuristic, got %+v", body.Session)
		}
	})

	t.Run("points", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/points", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Points []store.TrackPoint `json:"points"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Points) != 1 || body.Points[0].Finger != "index" {
			t.Errorf("expected one index point, got %v", body.Points)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", w.Code)
		}
	})
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration happens in the server goroutine after the upgrade.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hand := gesture.Derive(detector.PinchHand(), 640, 480)
	hub.Broadcast(PayloadFromHands(time.Unix(1700000000, 0), []gesture.NormalizedHandInfo{hand}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}

	var payload FramePayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.T != 1700000000 {
		t.Errorf("expected timestamp 1700000000, got %f", payload.T)
	}
	if len(payload.Hands) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(payload.Hands))
	}
	if payload.Hands[0].PinchFinger != string(detector.Index) {
		t.Errorf("expected index pinch on the wire, got %q", payload.Hands[0].PinchFinger)
	}
}

func TestHubBroadcastNoClients(t *testing.T) {
	hub := NewHub()
	// Must not block or panic with nobody listening.
	hub.Broadcast(FramePayload{T: 1})
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestPayloadFromHands(t *testing.T) {
	t.Run("wire field names", func(t *testing.T) {
		hand := gesture.Derive(detector.PinchHand(), 640, 480)
		payload := PayloadFromHands(time.Unix(10, 0), []gesture.NormalizedHandInfo{hand})

		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		for _, key := range []string{"t", "hands"} {
			if _, ok := raw[key]; !ok {
				t.Errorf("missing top-level key %q", key)
			}
		}

		var hands []map[string]json.RawMessage
		if err := json.Unmarshal(raw["hands"], &hands); err != nil {
			t.Fatalf("unmarshal hands: %v", err)
		}
		for _, key := range []string{"hand_id", "index", "thumb", "distance_norm", "side", "finger_dist_norm", "hand_size_norm"} {
			if _, ok := hands[0][key]; !ok {
				t.Errorf("missing hand key %q", key)
			}
		}
	})

	t.Run("empty map instead of null", func(t *testing.T) {
		bare := gesture.Derive(detector.HandInfo{Detected: true}, 640, 480)
		payload := PayloadFromHands(time.Now(), []gesture.NormalizedHandInfo{bare})

		if payload.Hands[0].FingerDistNorm == nil {
			t.Error("finger_dist_norm must never be nil")
		}
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if strings.Contains(string(data), `"finger_dist_norm":null`) {
			t.Error("finger_dist_norm serialized as null")
		}
	})

	t.Run("side omitted for undetected hands", func(t *testing.T) {
		bare := gesture.Derive(detector.HandInfo{}, 640, 480)
		payload := PayloadFromHands(time.Now(), []gesture.NormalizedHandInfo{bare})
		if payload.Hands[0].Side != "" {
			t.Errorf("expected empty side, got %q", payload.Hands[0].Side)
		}
	})

	t.Run("no hands yields empty list", func(t *testing.T) {
		payload := PayloadFromHands(time.Now(), nil)
		if payload.Hands == nil || len(payload.Hands) != 0 {
			t.Errorf("expected empty non-nil hands, got %v", payload.Hands)
		}
	})
}

func TestFrameBuffer(t *testing.T) {
	b := NewFrameBuffer()

	data, seq := b.Get()
	if data != nil || seq != 0 {
		t.Errorf("expected empty buffer, got %d bytes seq %d", len(data), seq)
	}

	b.Set([]byte("one"))
	data, seq = b.Get()
	if string(data) != "one" || seq != 1 {
		t.Errorf("expected (one, 1), got (%s, %d)", data, seq)
	}

	b.Set([]byte("two"))
	data, seq = b.Get()
	if string(data) != "two" || seq != 2 {
		t.Errorf("expected (two, 2), got (%s, %d)", data, seq)
	}
}
