package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mohsinsiddi/dappos/internal/dapp"
)

const defaultFirestoreEndpoint = "https://firestore.googleapis.com/v1"

// Firestore writes documents through the Firestore REST API. A PATCH without
// an update mask creates the document or replaces it whole, like set().
type Firestore struct {
	client    *http.Client
	endpoint  string
	projectID string
	apiKey    string
	token     string
}

// FirestoreOption configures a Firestore store.
type FirestoreOption func(*Firestore)

// WithEndpoint points the store at an emulator or test server.
func WithEndpoint(u string) FirestoreOption {
	return func(f *Firestore) {
		if u != "" {
			f.endpoint = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIKey authenticates with a web API key.
func WithAPIKey(key string) FirestoreOption { return func(f *Firestore) { f.apiKey = key } }

// WithBearerToken authenticates with an OAuth access token.
func WithBearerToken(tok string) FirestoreOption { return func(f *Firestore) { f.token = tok } }

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) FirestoreOption { return func(f *Firestore) { f.client = c } }

// NewFirestore creates a REST-backed store for projectID.
func NewFirestore(projectID string, opts ...FirestoreOption) *Firestore {
	f := &Firestore{
		client:    &http.Client{Timeout: 15 * time.Second},
		endpoint:  defaultFirestoreEndpoint,
		projectID: projectID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements Store.
func (f *Firestore) Name() string { return "firestore" }

// Close implements Store.
func (f *Firestore) Close() error { return nil }

// DocumentURL returns the REST URL of p.
func (f *Firestore) DocumentURL(p Path) string {
	segs := p.Segments()
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s",
		f.endpoint, url.PathEscape(f.projectID), strings.Join(segs, "/"))
	if f.apiKey != "" {
		u += "?key=" + url.QueryEscape(f.apiKey)
	}
	return u
}

// Set implements Store.
func (f *Firestore) Set(ctx context.Context, p Path, doc *dapp.Document) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if f.projectID == "" {
		return fmt.Errorf("firestore: no project id configured, run: dappos config set-store firestore --project-id <id>")
	}

	fields, err := EncodeFields(doc)
	if err != nil {
		return fmt.Errorf("firestore: encoding document: %w", err)
	}
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("firestore: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, f.DocumentURL(p), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("firestore: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 == 2 {
		return nil
	}

	var apiErr struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("firestore: %s (%s, HTTP %d)", apiErr.Error.Message, apiErr.Error.Status, resp.StatusCode)
	}
	return fmt.Errorf("firestore: HTTP %d", resp.StatusCode)
}

// EncodeFields converts v's JSON form into a Firestore "fields" map. v must
// encode to a JSON object.
func EncodeFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("document must encode to a JSON object: %w", err)
	}
	return encodeMap(obj), nil
}

func encodeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = encodeValue(v)
	}
	return out
}

func encodeValue(v any) map[string]any {
	switch x := v.(type) {
	case nil:
		return map[string]any{"nullValue": nil}
	case bool:
		return map[string]any{"booleanValue": x}
	case string:
		return map[string]any{"stringValue": x}
	case json.Number:
		if i, err := x.Int64(); err == nil && !strings.ContainsAny(x.String(), ".eE") {
			return map[string]any{"integerValue": fmt.Sprint(i)}
		}
		f, _ := x.Float64()
		return map[string]any{"doubleValue": f}
	case []any:
		values := make([]any, len(x))
		for i, e := range x {
			values[i] = encodeValue(e)
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}
	case map[string]any:
		return map[string]any{"mapValue": map[string]any{"fields": encodeMap(x)}}
	default:
		return map[string]any{"stringValue": fmt.Sprint(x)}
	}
}
