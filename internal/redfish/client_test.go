package redfish

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/device-management-toolkit/redfish-collector/config"
	"github.com/device-management-toolkit/redfish-collector/pkg/logger"
)

// fakeService is a minimal Redfish endpoint backed by a path->body map.
type fakeService struct {
	mu        sync.Mutex
	resources map[string]string
	hits      map[string]int
}

func newFakeService(resources map[string]string) *fakeService {
	return &fakeService{
		resources: resources,
		hits:      make(map[string]int),
	}
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	body, ok := f.resources[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeService) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hits[path]
}

func serviceRootBody() string {
	return `{
		"@odata.type": "#ServiceRoot.v1_5_0.ServiceRoot",
		"Id": "RootService",
		"RedfishVersion": "1.6.0",
		"Vendor": "Contoso",
		"Systems": {"@odata.id": "/redfish/v1/Systems"},
		"Chassis": {"@odata.id": "/redfish/v1/Chassis"},
		"Managers": {"@odata.id": "/redfish/v1/Managers"},
		"Links": {"Sessions": {"@odata.id": "/redfish/v1/SessionService/Sessions"}}
	}`
}

func connectTo(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	client, err := Connect(config.Target{
		Host:      u.Hostname(),
		Port:      u.Port(),
		Protocol:  "http",
		Username:  "monitor",
		Password:  "secret",
		BasicAuth: true,
		Timeout:   5 * time.Second,
		Retries:   0,
	}, logger.New("error"))
	require.NoError(t, err)

	return client
}

func TestClient_Fetch(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	fake := newFakeService(map[string]string{
		"/redfish/v1/":          serviceRootBody(),
		"/redfish/v1/Systems/1": `{"Id": "1", "Name": "Computer System", "@odata.type": "#ComputerSystem.v1_13_0.ComputerSystem"}`,
	})

	server := httptest.NewServer(fake)
	defer server.Close()

	client := connectTo(t, server)
	defer client.Close()

	res, err := client.Fetch("/redfish/v1/Systems/1")
	require.NoError(t, err)
	assert.Equal(t, "1", res.ID())
	assert.Equal(t, "/redfish/v1/Systems/1", res.Path)

	_, err = client.Fetch("/redfish/v1/Systems/2")
	assert.Error(t, err)
}

func TestClient_FetchCachesPerPath(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	fake := newFakeService(map[string]string{
		"/redfish/v1/":          serviceRootBody(),
		"/redfish/v1/Systems/1": `{"Id": "1"}`,
	})

	server := httptest.NewServer(fake)
	defer server.Close()

	client := connectTo(t, server)
	defer client.Close()

	for i := 0; i < 3; i++ {
		_, err := client.Fetch("/redfish/v1/Systems/1")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fake.hitCount("/redfish/v1/Systems/1"))
}

func TestClient_FetchCollectionSkipsFailedMembers(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	fake := newFakeService(map[string]string{
		"/redfish/v1/": serviceRootBody(),
		"/redfish/v1/Systems": `{
			"@odata.type": "#ComputerSystemCollection.ComputerSystemCollection",
			"Members@odata.count": 2,
			"Members": [
				{"@odata.id": "/redfish/v1/Systems/1"},
				{"@odata.id": "/redfish/v1/Systems/gone"}
			]
		}`,
		"/redfish/v1/Systems/1": `{"Id": "1"}`,
	})

	server := httptest.NewServer(fake)
	defer server.Close()

	client := connectTo(t, server)
	defer client.Close()

	col, err := client.Fetch("/redfish/v1/Systems")
	require.NoError(t, err)
	require.True(t, col.IsCollection())

	members := client.FetchCollection(col)
	require.Len(t, members, 1)
	assert.Equal(t, "1", members[0].ID())
}

func TestConnect_BadEndpoint(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	_, err := Connect(config.Target{
		Host:      "127.0.0.1",
		Port:      "1",
		Protocol:  "http",
		Username:  "monitor",
		Password:  "secret",
		BasicAuth: true,
		Timeout:   500 * time.Millisecond,
		Retries:   0,
	}, logger.New("error"))
	assert.Error(t, err)
}
