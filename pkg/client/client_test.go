package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@firm.test", body["email"])

		json.NewEncoder(w).Encode(AuthResponse{
			AccessToken: "token-abc",
			User:        User{ID: 7, Email: "jane@firm.test", Role: "USER"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), "jane@firm.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", resp.AccessToken)
	assert.Equal(t, "token-abc", c.Token())
}

func TestBearerHeaderSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(User{ID: 7, Email: "jane@firm.test"})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("token-abc"))
	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
}

func TestAPIErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid status transition"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.UpdateCaseStatus(context.Background(), 1, "ARCHIVED")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "invalid status transition", apiErr.Message)
}

func TestOnUnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("stale"))
	called := false
	c.OnUnauthorized = func() { called = true }

	_, err := c.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, called)
}

func TestListCasesQueryAndEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cases", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "IN_PROGRESS", q.Get("status"))
		assert.Equal(t, "estate", q.Get("title"))

		json.NewEncoder(w).Encode(Page[Case]{
			Content:       []Case{{ID: 3, Title: "Estate of Doe", Status: "IN_PROGRESS"}},
			Number:        2,
			TotalPages:    5,
			TotalElements: 41,
			Size:          10,
		})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("t"))
	page, err := c.ListCases(context.Background(), CaseFilters{Title: "estate", Status: "IN_PROGRESS"}, 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Estate of Doe", page.Content[0].Title)
	assert.Equal(t, int64(41), page.TotalElements)
}

func TestUploadDocumentMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cases/9/documents", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "HIGH", r.FormValue("sensitivityLevel"))
		assert.Equal(t, "group-1", r.FormValue("documentGroupId"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "brief.pdf", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "pdf-bytes", string(data))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Document{ID: 12, FileName: "brief.pdf", Version: 2, DocumentGroupID: "group-1"})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("t"))
	doc, err := c.UploadDocument(context.Background(), 9, "brief.pdf", strings.NewReader("pdf-bytes"), "HIGH", "group-1")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "group-1", doc.DocumentGroupID)
}

func TestDownloadDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cases/9/documents/12/download", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="brief.pdf"`)
		w.Write([]byte("pdf-bytes"))
	}))
	defer server.Close()

	c := New(server.URL, WithToken("t"))
	name, data, err := c.DownloadDocument(context.Background(), 9, 12)
	require.NoError(t, err)
	assert.Equal(t, "brief.pdf", name)
	assert.Equal(t, []byte("pdf-bytes"), data)
}

func TestInviteLifecycleCalls(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(Invite{ID: 4, Status: "APPROVED"})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("t"))
	ctx := context.Background()

	_, err := c.ApproveInvite(ctx, 4)
	require.NoError(t, err)
	_, err = c.TerminateInvite(ctx, 4)
	require.NoError(t, err)
	require.NoError(t, c.DeleteInvite(ctx, 4))

	assert.Equal(t, []string{
		"POST /api/invites/4/approve",
		"POST /api/invites/4/terminate",
		"DELETE /api/invites/4",
	}, paths)
}
