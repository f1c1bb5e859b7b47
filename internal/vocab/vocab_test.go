package vocab

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/verbtrainer/pkg/models"
)

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Fetch(context.Context) ([]byte, error) {
	return nil, errors.New("fetch blocked")
}

type staticSource struct {
	name string
	data string
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Fetch(context.Context) ([]byte, error) {
	return []byte(s.data), nil
}

func TestDecodeArrayAndWrapper(t *testing.T) {
	array := `[
		{"infinitiv": "gehen", "praeteritum": "ging", "partizipII": "gegangen", "translation": "to go"},
		{"infinitiv": "sehen", "praeteritum": "sah", "partizipII": "gesehen"}
	]`
	wrapper := `{"verbs": [
		{"infinitiv": "gehen", "praeteritum": "ging", "partizipII": "gegangen", "translation": {"en": "to go"}},
		{"infinitiv": "sehen", "praeteritum": "sah", "partizipII": "gesehen"}
	]}`

	for name, data := range map[string]string{"array": array, "wrapper": wrapper} {
		entries, skipped, err := Decode([]byte(data))
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if skipped != 0 || len(entries) != 2 {
			t.Fatalf("%s: expected 2 entries, got %d (skipped %d)", name, len(entries), skipped)
		}
		if entries[0].Translation != "to go" {
			t.Errorf("%s: expected translation 'to go', got %q", name, entries[0].Translation)
		}
		if entries[1].Translation != "" {
			t.Errorf("%s: expected empty translation, got %q", name, entries[1].Translation)
		}
	}
}

func TestDecodeSkipsIncompleteRecords(t *testing.T) {
	data := `[
		{"infinitiv": "gehen", "praeteritum": "ging", "partizipII": "gegangen"},
		{"infinitiv": "sehen", "praeteritum": "sah"},
		{"praeteritum": "gab", "partizipII": "gegeben"},
		{"infinitiv": "lesen", "praeteritum": "", "partizipII": "gelesen"},
		42,
		{"infinitiv": "nehmen", "praeteritum": "nahm", "partizipII": "genommen"}
	]`

	entries, skipped, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if skipped != 4 {
		t.Errorf("expected 4 skipped, got %d", skipped)
	}
	if len(entries) != 2 || entries[0].Infinitive != "gehen" || entries[1].Infinitive != "nehmen" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, _, err := Decode([]byte(`{"verbs": [`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, _, err := Decode([]byte(`<html>`)); err == nil {
		t.Error("expected error for non-JSON body")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	res, err := Load(context.Background(), failingSource{}, EmbeddedSource())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Source != "embedded" {
		t.Errorf("expected embedded source, got %q", res.Source)
	}
	if len(res.Entries) == 0 {
		t.Fatal("embedded deck is empty")
	}
	for _, v := range res.Entries {
		if !v.IsComplete() {
			t.Errorf("embedded entry %+v is incomplete", v)
		}
	}
}

func TestLoadFallsBackOnMalformedAndEmpty(t *testing.T) {
	res, err := Load(context.Background(),
		staticSource{name: "broken", data: "not json"},
		staticSource{name: "empty", data: `{"verbs": [{"infinitiv": "x"}]}`},
		staticSource{name: "good", data: `[{"infinitiv": "gehen", "praeteritum": "ging", "partizipII": "gegangen"}]`},
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Source != "good" || len(res.Entries) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestLoadAllFail(t *testing.T) {
	res, err := Load(context.Background(), failingSource{}, staticSource{name: "empty", data: `[]`})
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !errors.Is(err, ErrNoValidRecords) {
		t.Errorf("expected ErrNoValidRecords in %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("expected empty deck, got %d entries", len(res.Entries))
	}

	if _, err := Load(context.Background()); err == nil {
		t.Error("expected error without sources")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.json")
	data := `[{"infinitiv": "gehen", "praeteritum": "ging", "partizipII": "gegangen"}, {"infinitiv": "sehen", "praeteritum": "sah"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(context.Background(), FileSource(path), EmbeddedSource())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(res.Source, "file ") || len(res.Entries) != 1 || res.Skipped != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = Load(context.Background(), FileSource(filepath.Join(t.TempDir(), "missing.json")), EmbeddedSource())
	if err != nil || res.Source != "embedded" {
		t.Errorf("expected fallback for missing file, got %q (%v)", res.Source, err)
	}
}

func TestURLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/verbs.json":
			if r.Header.Get("Cache-Control") != "no-store" {
				t.Errorf("expected no-store cache header")
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"verbs": [{"infinitiv": "gehen", "praeteritum": "ging", "partizipII": "gegangen"}]}`))
		case "/broken.json":
			w.Write([]byte(`{"verbs": [`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	res, err := Load(ctx, URLSource(srv.URL+"/verbs.json", srv.Client()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(res.Entries))
	}

	for _, path := range []string{"/missing.json", "/broken.json"} {
		res, err := Load(ctx, URLSource(srv.URL+path, srv.Client()), EmbeddedSource())
		if err != nil {
			t.Fatalf("%s: load: %v", path, err)
		}
		if res.Source != "embedded" {
			t.Errorf("%s: expected fallback to embedded, got %q", path, res.Source)
		}
	}
}

func TestChain(t *testing.T) {
	if got := Chain("", ""); len(got) != 1 || got[0].Name() != "embedded" {
		t.Errorf("expected only embedded source, got %d sources", len(got))
	}
	got := Chain("verbs.json", "http://example.invalid/verbs.json")
	if len(got) != 3 || got[2].Name() != "embedded" {
		t.Errorf("expected file, url, embedded, got %d sources", len(got))
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	entries := []models.VerbEntry{
		{Infinitive: "essen", Preterite: "aß", PastParticiple: "gegessen", Translation: "to eat"},
		{Infinitive: "tun", Preterite: "tat", PastParticiple: "getan"},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, entries); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"aß"`) {
		t.Errorf("expected unescaped umlaut in %s", buf.String())
	}

	got, skipped, err := Decode(buf.Bytes())
	if err != nil || skipped != 0 {
		t.Fatalf("decode: %v (skipped %d)", err, skipped)
	}
	if len(got) != 2 || got[0] != entries[0] || got[1] != entries[1] {
		t.Errorf("expected %+v, got %+v", entries, got)
	}
}
