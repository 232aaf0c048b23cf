// Package callerfake is a scripted apiclient.Caller for service tests.
package callerfake

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/jrsteele09/wepark-client/apiclient"
)

// FakeCaller answers calls from a table keyed by "METHOD endpoint". Calls
// without an entry get a 404 with a message.
type FakeCaller struct {
	mu        sync.Mutex
	responses map[string]apiclient.Response
	calls     []string
}

var _ apiclient.Caller = (*FakeCaller)(nil)

func NewFakeCaller() *FakeCaller {
	return &FakeCaller{responses: make(map[string]apiclient.Response)}
}

// On scripts the response for method and endpoint. body is marshalled as the
// response data.
func (f *FakeCaller) On(method, endpoint string, status int, body any) *FakeCaller {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+endpoint] = apiclient.Response{
		OK:     status >= 200 && status < 300,
		Status: status,
		Data:   data,
	}
	return f
}

func (f *FakeCaller) Call(_ context.Context, endpoint, method string, _ any) apiclient.Response {
	if method == "" {
		method = http.MethodGet
	}
	key := method + " " + endpoint

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if resp, ok := f.responses[key]; ok {
		return resp
	}
	return apiclient.Response{
		Status: http.StatusNotFound,
		Data:   json.RawMessage(`{"message":"no scripted response"}`),
	}
}

// Calls lists the "METHOD endpoint" keys in call order.
func (f *FakeCaller) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
