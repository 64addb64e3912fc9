package rpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// recordedCall captures a decoded request received by fakeBackend.
type recordedCall struct {
	ID      uint64
	Service string
	Method  string
	Args    []json.RawMessage
}

// fakeBackend is a JSON-RPC endpoint whose answers are configured per
// service/method pair. Bodies are written verbatim.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	calls   []recordedCall
	replies map[string]string
	status  int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		t:       t,
		replies: map[string]string{},
	}

	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	assert.Equal(b.t, http.MethodPost, r.Method)
	assert.Equal(b.t, Endpoint, r.URL.Path)
	assert.Equal(b.t, "application/json", r.Header.Get("Content-Type"))

	var req struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		ID      uint64 `json:"id"`
		Params  struct {
			Service string            `json:"service"`
			Method  string            `json:"method"`
			Args    []json.RawMessage `json:"args"`
		} `json:"params"`
	}
	if !assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&req)) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	assert.Equal(b.t, "2.0", req.JSONRPC)
	assert.Equal(b.t, "call", req.Method)

	b.mu.Lock()
	b.calls = append(b.calls, recordedCall{
		ID:      req.ID,
		Service: req.Params.Service,
		Method:  req.Params.Method,
		Args:    req.Params.Args,
	})
	status := b.status
	reply, ok := b.replies[req.Params.Service+"."+req.Params.Method]
	b.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		reply = `{"jsonrpc":"2.0","result":null}`
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(reply))
}

// reply sets the raw response body for service.method.
func (b *fakeBackend) reply(service, method, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[service+"."+method] = body
}

// failWith makes every subsequent request answer with the given status.
func (b *fakeBackend) failWith(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

// count returns how many calls hit service.method.
func (b *fakeBackend) count(service, method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.calls {
		if c.Service == service && c.Method == method {
			n++
		}
	}
	return n
}

func (b *fakeBackend) recorded() []recordedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedCall(nil), b.calls...)
}

func (b *fakeBackend) transport() *HTTPTransport {
	return NewHTTPTransport(b.server.URL, 0, zerolog.Nop())
}

var testCreds = Credentials{Database: "acme", Login: "api", Secret: "k"}

func (b *fakeBackend) client() *Client {
	tr := b.transport()
	return NewClient(tr, NewSessions(tr, testCreds, zerolog.Nop()), zerolog.Nop())
}
