package v2

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	address := strings.TrimPrefix(srv.URL, "https://")
	return NewClient(address, "secret-key", srv.Client(), 0)
}

func TestClient_SendRequest(t *testing.T) {
	var gotPath, gotKey, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("hue-application-key")
		gotMethod = r.Method
		w.Write([]byte(`{"errors":[],"data":[]}`))
	})

	body, err := c.SendRequest(context.Background(), http.MethodGet, "resource/room")
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[],"data":[]}`, string(body))
	assert.Equal(t, "/clip/v2/resource/room", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestClient_SendRequest_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"description":"unauthorized user"}],"data":[]}`))
	})

	_, err := c.SendRequest(context.Background(), http.MethodGet, "resource/zone")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "resource/zone", statusErr.Path)
	assert.Contains(t, statusErr.Error(), "unauthorized user")
}

func TestClient_Connect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clip/v2/resource" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"errors":[],"data":[]}`))
	})

	assert.NoError(t, c.Connect(context.Background()))
}

func TestClient_RateLimitedRequestHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[],"data":[]}`))
	})
	limited := NewClient(c.address, c.token, c.httpClient, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := limited.SendRequest(ctx, http.MethodGet, "resource/light")
	assert.Error(t, err)
}

type stubClient struct {
	body []byte
	err  error
}

func (s stubClient) SendRequest(ctx context.Context, method, path string) ([]byte, error) {
	return s.body, s.err
}

func TestFetch_DecodesEnvelope(t *testing.T) {
	rc := stubClient{body: []byte(`{
		"errors": [{"description": "partial"}],
		"data": [{
			"id": "room-1",
			"id_v1": "/groups/1",
			"type": "room",
			"metadata": {"name": "Kitchen", "archetype": "kitchen"},
			"children": [{"rid": "dev-1", "rtype": "device"}],
			"services": [{"rid": "gl-1", "rtype": "grouped_light"}]
		}]
	}`)}

	env, err := Fetch[Group](context.Background(), rc, "resource/room")
	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	require.Len(t, env.Errors, 1)

	g := env.Data[0]
	assert.Equal(t, "room-1", g.ID)
	assert.Equal(t, "/groups/1", g.IDV1)
	assert.Equal(t, TypeRoom, g.Type)
	assert.Equal(t, "Kitchen", g.Metadata.Name)
	assert.Equal(t, []ResourceRef{{RID: "dev-1", RType: TypeDevice}}, g.Children)
	assert.Equal(t, []ResourceRef{{RID: "gl-1", RType: TypeGroupedLight}}, g.Services)
	assert.Equal(t, "partial", env.Errors[0].Description)
}

func TestFetch_PropagatesErrors(t *testing.T) {
	sentinel := errors.New("boom")
	_, err := Fetch[Light](context.Background(), stubClient{err: sentinel}, "resource/light")
	assert.ErrorIs(t, err, sentinel)

	_, err = Fetch[Light](context.Background(), stubClient{body: []byte("not json")}, "resource/light")
	assert.ErrorContains(t, err, "resource/light")
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "resource/zone", CollectionPath(TypeZone))
	assert.Equal(t, "resource/grouped_light/abc", ResourcePath(TypeGroupedLight, "abc"))
}
