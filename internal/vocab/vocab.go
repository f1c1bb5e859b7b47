// Package vocab loads the verb deck from a chain of sources and imports
// decks from spreadsheets.
package vocab

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/example/verbtrainer/pkg/models"
)

//go:embed verbs.json
var embeddedVerbs []byte

// Source yields raw deck JSON
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// Result describes a successful load
type Result struct {
	Entries []models.VerbEntry
	Source  string // name of the source that produced the deck
	Skipped int    // records dropped for missing verb forms
}

// ErrNoValidRecords is returned when a source decodes but holds no
// complete verb record
var ErrNoValidRecords = errors.New("no valid verb records")

// Load tries each source once, in order, and returns the first deck
// with at least one valid record. When every source fails the result
// is empty and the error joins each failure.
func Load(ctx context.Context, sources ...Source) (Result, error) {
	var errs []error
	for _, src := range sources {
		data, err := src.Fetch(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		entries, skipped, err := Decode(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if len(entries) == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), ErrNoValidRecords))
			continue
		}

		if skipped > 0 {
			log.Printf("Skipped %d incomplete verb records from %s", skipped, src.Name())
		}
		return Result{Entries: entries, Source: src.Name(), Skipped: skipped}, nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no vocabulary sources configured"))
	}
	return Result{}, errors.Join(errs...)
}

// Decode parses a JSON array of verb records or a {"verbs": [...]}
// wrapper. Incomplete or malformed records are skipped one by one.
func Decode(data []byte) ([]models.VerbEntry, int, error) {
	data = bytes.TrimSpace(data)

	var raw []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, 0, fmt.Errorf("failed to parse verb list: %w", err)
		}
	} else {
		var wrapper struct {
			Verbs []json.RawMessage `json:"verbs"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, 0, fmt.Errorf("failed to parse verb list: %w", err)
		}
		raw = wrapper.Verbs
	}

	entries := make([]models.VerbEntry, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		var v models.VerbEntry
		if err := json.Unmarshal(r, &v); err != nil || !v.IsComplete() {
			skipped++
			continue
		}
		entries = append(entries, v)
	}
	return entries, skipped, nil
}

// Encode writes entries in the {"verbs": [...]} form
func Encode(w io.Writer, entries []models.VerbEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Verbs []models.VerbEntry `json:"verbs"`
	}{Verbs: entries}); err != nil {
		return fmt.Errorf("failed to encode verbs: %w", err)
	}
	return nil
}

type fileSource struct {
	path string
}

// FileSource reads the deck from a local file
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string { return "file " + s.path }

func (s fileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read verb file: %w", err)
	}
	return data, nil
}

type urlSource struct {
	url    string
	client *http.Client
}

// URLSource fetches the deck with one GET request: no retry, and no
// deadline other than the caller's context. Non-2xx responses count as
// failures.
func URLSource(url string, client *http.Client) Source {
	if client == nil {
		client = &http.Client{}
	}
	return urlSource{url: url, client: client}
}

func (s urlSource) Name() string { return "url " + s.url }

func (s urlSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verbs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

type embeddedSource struct{}

// EmbeddedSource returns the deck compiled into the binary
func EmbeddedSource() Source {
	return embeddedSource{}
}

func (embeddedSource) Name() string { return "embedded" }

func (embeddedSource) Fetch(_ context.Context) ([]byte, error) {
	return embeddedVerbs, nil
}

// Chain builds the usual source order: configured file, configured URL,
// then the embedded deck
func Chain(file, url string) []Source {
	var sources []Source
	if file != "" {
		sources = append(sources, FileSource(file))
	}
	if url != "" {
		sources = append(sources, URLSource(url, nil))
	}
	return append(sources, EmbeddedSource())
}
