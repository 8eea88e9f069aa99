package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	"github.com/noah-isme/cse-resource-hub/pkg/config"
	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Backend: config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}}
	return NewClient(cfg, nil), srv
}

func TestClientListResourcesQuery(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([]models.Resource{{ID: "r1", Title: "Notes", Status: models.StatusApproved}})
	}))

	sem := 3
	resources, err := client.ListResources(context.Background(), models.Filter{Semester: &sem, Subject: "Data Structures"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "r1", resources[0].ID)

	assert.Equal(t, "/resources", gotPath)
	assert.Equal(t, []string{"3"}, gotQuery["semester"])
	assert.Equal(t, []string{"Data Structures"}, gotQuery["subject"])
}

func TestClientListResourcesOmitsAbsentFilterFields(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, "[]")
	}))

	_, err := client.ListResources(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "semester")
	assert.NotContains(t, gotQuery, "subject")
}

func TestClientPendingResources(t *testing.T) {
	var gotPath string
	var gotStatus string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStatus = r.URL.Query().Get("status")
		json.NewEncoder(w).Encode([]models.Resource{{ID: "p1", Status: models.StatusPending}})
	}))

	resources, err := client.PendingResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "/resources/pending", gotPath)
	assert.Equal(t, "pending", gotStatus)
}

func TestClientCreateResource(t *testing.T) {
	var gotReq models.CreateResourceRequest
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Resource{ID: "new-1", Title: gotReq.Title, Status: models.StatusPending})
	}))

	created, err := client.CreateResource(context.Background(), models.CreateResourceRequest{
		Title:        "Lab manual",
		Subject:      "OS",
		Semester:     5,
		Tags:         []string{"lab"},
		UploadedBy:   "asha@example.edu",
		UploaderName: "Asha Verma",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "Lab manual", gotReq.Title)
	assert.Equal(t, "asha@example.edu", gotReq.UploadedBy)
}

func TestClientApproveResource(t *testing.T) {
	var gotPath string
	var gotReq models.ApproveRequest
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		approver := gotReq.ApprovedBy
		json.NewEncoder(w).Encode(models.Resource{ID: "r1", Status: models.StatusApproved, ApprovedBy: &approver})
	}))

	updated, err := client.ApproveResource(context.Background(), "r1", "rao@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "/resources/r1/approve", gotPath)
	assert.Equal(t, "rao@example.edu", gotReq.ApprovedBy)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusApproved, updated.Status)
}

func TestClientApproveResourceEmptyBody(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	updated, err := client.ApproveResource(context.Background(), "r1", "rao@example.edu")
	require.NoError(t, err)
	assert.Nil(t, updated, "an empty success body is accepted")
}

func TestClientLogin(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(models.Identity{Name: req.Name, Email: req.Email, Role: req.Role, Semester: req.Semester})
	}))

	sem := 2
	identity, err := client.Login(context.Background(), models.LoginRequest{
		Name: "Asha Verma", Email: "asha@example.edu", Role: models.RoleStudent, Semester: &sem,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, identity.Role)
	require.NotNil(t, identity.Semester)
	assert.Equal(t, 2, *identity.Semester)
}

func TestClientErrorStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, appErrors.ErrValidation.Code},
		{http.StatusForbidden, appErrors.ErrForbidden.Code},
		{http.StatusNotFound, appErrors.ErrNotFound.Code},
		{http.StatusInternalServerError, "BACKEND_ERROR"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"error":"nope"}`)
			}))

			_, err := client.ListResources(context.Background(), models.Filter{})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Equal(t, "nope", appErr.Message)
		})
	}
}

func TestClientConnectionFailure(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}}
	client := NewClient(cfg, nil)

	_, err := client.ListResources(context.Background(), models.Filter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}

func TestClientEventsSubscription(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"event\":\"resource_created\"}\n\n")
		flusher.Flush()
		fmt.Fprint(w, "data: {\"event\":\"resource_approved\"}\n\n")
		flusher.Flush()
	}))

	stream, err := client.Events(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	require.True(t, stream.Next())
	assert.JSONEq(t, `{"event":"resource_created"}`, stream.Event().Data)
	require.True(t, stream.Next())
	assert.JSONEq(t, `{"event":"resource_approved"}`, stream.Event().Data)

	assert.False(t, stream.Next(), "handler returned, stream ends")
	assert.NoError(t, stream.Err())
}

func TestClientEventsRejected(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.Events(context.Background())
	require.Error(t, err)
}
