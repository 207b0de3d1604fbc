package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
)

func (c *Client) ListDocumentGroups(ctx context.Context, caseID uint) ([]DocumentGroup, error) {
	var out []DocumentGroup
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cases/%d/documents", caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadDocument uploads a file to a case. A non-empty documentGroupID
// appends a new version to that group; empty starts a fresh group at
// version 1.
func (c *Client) UploadDocument(ctx context.Context, caseID uint, fileName string, content io.Reader, sensitivityLevel, documentGroupID string) (*Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.WriteField("sensitivityLevel", sensitivityLevel); err != nil {
		return nil, err
	}
	if documentGroupID != "" {
		if err := writer.WriteField("documentGroupId", documentGroupID); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/cases/%d/documents", caseID), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.errorFrom(resp)
	}

	var out Document
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadDocument fetches one document version. The returned name is
// taken from the Content-Disposition header when present.
func (c *Client) DownloadDocument(ctx context.Context, caseID, docID uint) (name string, data []byte, err error) {
	path := fmt.Sprintf("/api/cases/%d/documents/%d/download", caseID, docID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", nil, c.errorFrom(resp)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			name = params["filename"]
		}
	}
	return name, data, nil
}

func (c *Client) DeleteDocument(ctx context.Context, caseID, docID uint) error {
	path := fmt.Sprintf("/api/cases/%d/documents/%d", caseID, docID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) UpdateDocumentGroupSensitivity(ctx context.Context, caseID uint, groupID, level string) error {
	q := url.Values{}
	q.Set("sensitivityLevel", level)
	path := fmt.Sprintf("/api/cases/%d/documents/%s/sensitivity?%s", caseID, url.PathEscape(groupID), q.Encode())
	return c.doJSON(ctx, http.MethodPatch, path, nil, nil)
}
