package catalog

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"mediadeck/internal/models"
)

// ListMedia fetches one page of the media collection
func (c *Client) ListMedia(ctx context.Context, token string, page, limit int) (*models.MediaPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var result models.MediaPage
	path := mediaPath + "?" + params.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"page":  page,
		"count": len(result.Data),
	}).Debug("Fetched media page")

	return &result, nil
}

// CreateMedia submits a new record as a multipart form
func (c *Client) CreateMedia(ctx context.Context, token string, draft *models.MediaDraft) (*models.Media, error) {
	var created models.Media
	if err := c.doMultipart(ctx, http.MethodPost, mediaPath, token, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMedia submits changes to an existing record as a multipart form
func (c *Client) UpdateMedia(ctx context.Context, token string, id int64, draft *models.MediaDraft) (*models.Media, error) {
	var updated models.Media
	path := fmt.Sprintf("%s/%d", mediaPath, id)
	if err := c.doMultipart(ctx, http.MethodPut, path, token, draft, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMedia removes a record
func (c *Client) DeleteMedia(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("%s/%d", mediaPath, id)
	return c.doJSON(ctx, http.MethodDelete, path, token, nil, nil)
}

// doMultipart encodes the draft as a multipart form and sends it
func (c *Client) doMultipart(ctx context.Context, method, path, token string, draft *models.MediaDraft, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, contentType, err := encodeDraft(draft)
	if err != nil {
		return err
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    fullURL,
		"poster": draft.PosterName != "",
	}).Debug("Submitting media form")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", bearerValue(token))

	return c.send(req, method, path, result)
}

// encodeDraft builds the multipart body: all text fields, then the
// optional poster file part.
func encodeDraft(draft *models.MediaDraft) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := []struct {
		name  string
		value string
	}{
		{"title", draft.Title},
		{"type", string(draft.Type)},
		{"director", draft.Director},
		{"budget", draft.Budget},
		{"location", draft.Location},
		{"duration", draft.Duration},
		{"year", draft.Year},
	}

	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	if draft.PosterName != "" {
		part, err := writer.CreateFormFile("poster", draft.PosterName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create poster part: %w", err)
		}
		if _, err := part.Write(draft.Poster); err != nil {
			return nil, "", fmt.Errorf("failed to write poster data: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
