package firewall_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driven/firewall"
	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

type capturedRequest struct {
	Method      string
	RequestURI  string
	Body        []byte
	ContentType string
}

// newRecordingClient returns a client whose server records every request
// and answers with status and body.
func newRecordingClient(t *testing.T, status int, body string) (*firewall.Client, *[]capturedRequest) {
	t.Helper()

	var reqs []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		reqs = append(reqs, capturedRequest{
			Method:      r.Method,
			RequestURI:  r.RequestURI,
			Body:        data,
			ContentType: r.Header.Get("Content-Type"),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return firewall.NewClientWithHTTPClient(server.Client(), server.URL+"/"), &reqs
}

func TestRead_GetRoutesSendNoBody(t *testing.T) {
	for _, spec := range model.FirewallRoutes() {
		if spec.Method != model.MethodGet {
			continue
		}
		t.Run(spec.Label, func(t *testing.T) {
			client, reqs := newRecordingClient(t, http.StatusOK, `{"success":true}`)

			doc, err := client.Read(context.Background(), spec.Action)

			require.NoError(t, err)
			assert.JSONEq(t, `{"success":true}`, string(doc))
			require.Len(t, *reqs, 1)
			got := (*reqs)[0]
			assert.Equal(t, http.MethodGet, got.Method)
			assert.Empty(t, got.Body)
			assert.True(t, strings.HasSuffix(got.RequestURI, "?action="+spec.Action), got.RequestURI)
			assert.Equal(t, "/api/firewall?action="+spec.Action, got.RequestURI)
		})
	}
}

func TestWriteDelete_BodyMatchesDeclaredFields(t *testing.T) {
	for _, spec := range model.FirewallRoutes() {
		if spec.Method == model.MethodGet {
			continue
		}
		t.Run(spec.Label, func(t *testing.T) {
			client, reqs := newRecordingClient(t, http.StatusOK, `{"success":true}`)

			values := map[string]string{}
			for _, f := range spec.Fields {
				values[f.Name] = "x"
				if f.Kind == model.FieldBool {
					values[f.Name] = "false"
				}
			}
			action, err := model.RouteInvocation{Spec: spec, Values: values}.Action()
			require.NoError(t, err)

			switch spec.Method {
			case model.MethodPost:
				_, err = client.Write(context.Background(), spec.Action, action)
			case model.MethodDelete:
				_, err = client.Delete(context.Background(), spec.Action, action)
			}
			require.NoError(t, err)

			require.Len(t, *reqs, 1)
			got := (*reqs)[0]
			assert.Equal(t, string(spec.Method), got.Method)
			assert.Equal(t, "/api/firewall?action="+spec.Action, got.RequestURI)
			assert.Equal(t, "application/json", got.ContentType)

			var body map[string]any
			require.NoError(t, json.Unmarshal(got.Body, &body))
			keys := make([]string, 0, len(body))
			for k := range body {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, spec.FieldNames(), keys)
		})
	}
}

func TestWrite_VPNEnableIsJSONBool(t *testing.T) {
	client, reqs := newRecordingClient(t, http.StatusOK, `{"success":true}`)

	_, err := client.Write(context.Background(), "vpn", model.VPNAction{Enable: true})

	require.NoError(t, err)
	assert.JSONEq(t, `{"enable":true}`, string((*reqs)[0].Body))
}

func TestDo_NonSuccessStatus(t *testing.T) {
	client, reqs := newRecordingClient(t, http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND"}}`)

	_, err := client.Write(context.Background(), "unblock", model.UnblockAction{IP: "1.2.3.4"})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, driven.StatusCodeOf(err))
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Len(t, *reqs, 1, "no retry")
}

func TestDo_MalformedBody(t *testing.T) {
	client, _ := newRecordingClient(t, http.StatusOK, `not json`)

	_, err := client.Read(context.Background(), "info")

	require.ErrorIs(t, err, driven.ErrMalformedResponse)
}

func TestDo_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := server.URL
	server.Close()

	client := firewall.NewClientWithHTTPClient(http.DefaultClient, base)

	_, err := client.Read(context.Background(), "info")

	require.ErrorIs(t, err, driven.ErrTransport)
}

func TestURL_EscapesAction(t *testing.T) {
	client := firewall.NewClientWithHTTPClient(http.DefaultClient, "https://fw.example/")
	assert.Equal(t, "https://fw.example/api/firewall?action=routes", client.URL("routes"))
	assert.Equal(t, "https://fw.example/api/firewall?action=a%26b", client.URL("a&b"))
}
