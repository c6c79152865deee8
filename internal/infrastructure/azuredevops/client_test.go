package azuredevops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azproxy/backend/internal/domain/workitem"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &Config{Organization: "contoso", PAT: "secret"},
			wantErr: nil,
		},
		{
			name:    "missing organization",
			config:  &Config{PAT: "secret"},
			wantErr: ErrConfigMissingOrganization,
		},
		{
			name:    "missing pat",
			config:  &Config{Organization: "contoso"},
			wantErr: ErrConfigMissingPAT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				// Check defaults are set
				assert.Equal(t, DefaultBaseURL, tt.config.BaseURL)
				assert.Equal(t, DefaultEntitlementsBaseURL, tt.config.EntitlementsBaseURL)
				assert.Equal(t, DefaultAPIVersion, tt.config.APIVersion)
				assert.True(t, tt.config.Timeout > 0)
			}
		})
	}
}

func TestConfig_AuthorizationHeader(t *testing.T) {
	config := NewConfig("contoso", "my-pat")
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(":my-pat"))
	assert.Equal(t, want, config.AuthorizationHeader())
}

// ---------------------------------------------------------------------------
// Client Tests
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := NewConfig("contoso", "test-pat")
	config.BaseURL = server.URL
	config.EntitlementsBaseURL = server.URL

	client, err := NewClient(config)
	require.NoError(t, err)
	return client
}

func TestClient_ListProjects(t *testing.T) {
	t.Run("returns upstream body verbatim", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/contoso/_apis/projects", r.URL.Path)
			assert.Equal(t, DefaultAPIVersion, r.URL.Query().Get("api-version"))
			assert.NotEmpty(t, r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"count":2,"value":[{"name":"Phoenix"},{"name":"Titan"}]}`))
		})

		body, err := client.ListProjects(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"count":2,"value":[{"name":"Phoenix"},{"name":"Titan"}]}`, string(body))
	})

	t.Run("wraps upstream errors with status and body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"TF400813: access denied"}`))
		})

		_, err := client.ListProjects(context.Background())
		require.Error(t, err)

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
		assert.Contains(t, string(upstreamErr.Body), "TF400813")
	})
}

func TestClient_FindUserPrincipalName(t *testing.T) {
	t.Run("matches display name ignoring case and whitespace", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/contoso/_apis/userentitlements", r.URL.Path)
			assert.Equal(t, DefaultEntitlementsAPIVersion, r.URL.Query().Get("api-version"))
			assert.Equal(t, "name eq 'maria lopez'", r.URL.Query().Get("$filter"))

			w.Write([]byte(`{"members":[
				{"user":{"displayName":"Other Person","principalName":"other@example.com"}},
				{"user":{"displayName":"  Maria Lopez ","principalName":"maria@example.com"}}
			]}`))
		})

		principal, found, err := client.FindUserPrincipalName(context.Background(), "maria lopez")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "maria@example.com", principal)
	})

	t.Run("falls back to value list and mail address", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"value":[
				{"user":{"name":"Maria Lopez","mailAddress":"maria@example.com"}}
			]}`))
		})

		principal, found, err := client.FindUserPrincipalName(context.Background(), "Maria Lopez")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "maria@example.com", principal)
	})

	t.Run("reports a miss when nobody matches", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"members":[{"user":{"displayName":"Somebody Else","principalName":"x@example.com"}}]}`))
		})

		_, found, err := client.FindUserPrincipalName(context.Background(), "Maria Lopez")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("treats upstream failures as a miss", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"not licensed"}`))
		})

		_, found, err := client.FindUserPrincipalName(context.Background(), "Maria Lopez")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClient_CreateBug(t *testing.T) {
	ops := []workitem.PatchOperation{
		{Op: "add", Path: "/fields/System.Title", Value: "Broken login"},
	}

	t.Run("posts a json patch document", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/contoso/Phoenix/_apis/wit/workitems/$Bug", r.URL.Path)
			assert.Equal(t, jsonPatchContentType, r.Header.Get("Content-Type"))

			var got []map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			require.Len(t, got, 1)
			assert.Equal(t, "/fields/System.Title", got[0]["path"])

			w.Write([]byte(`{"id":123,"fields":{"System.Title":"Broken login"}}`))
		})

		body, err := client.CreateBug(context.Background(), "Phoenix", ops)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":123,"fields":{"System.Title":"Broken login"}}`, string(body))
	})

	t.Run("wraps upstream rejections", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"TF401320: invalid field"}`))
		})

		_, err := client.CreateBug(context.Background(), "Phoenix", ops)
		require.Error(t, err)

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
	})
}

func TestUpstreamError_JSONBody(t *testing.T) {
	t.Run("decodes json bodies", func(t *testing.T) {
		err := &UpstreamError{StatusCode: 400, Body: []byte(`{"message":"bad"}`)}
		assert.Equal(t, map[string]any{"message": "bad"}, err.JSONBody())
	})

	t.Run("wraps non-json bodies as raw text", func(t *testing.T) {
		err := &UpstreamError{StatusCode: 502, Body: []byte("<html>gateway</html>")}
		assert.Equal(t, map[string]string{"raw_text": "<html>gateway</html>"}, err.JSONBody())
	})
}
