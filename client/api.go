// server/client/api.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinizap/shelf/server/domain"
)

// APIError is a non-2xx answer from the server. Message is the server's
// {"message"} text when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type API struct {
	BaseURL string
	Client  *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(data))}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (a *API) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := a.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *API) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	if err := a.do(ctx, http.MethodGet, "/api/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (a *API) CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	var it domain.Item
	err := a.do(ctx, http.MethodPost, "/api/items", in, &it)
	return it, err
}

func (a *API) CreateFolder(ctx context.Context, in domain.NewFolder) (domain.Folder, error) {
	var f domain.Folder
	err := a.do(ctx, http.MethodPost, "/api/folders", in, &f)
	return f, err
}

func (a *API) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	var it domain.Item
	err := a.do(ctx, http.MethodPut, "/api/items/"+id, patch, &it)
	return it, err
}

func (a *API) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (domain.Folder, error) {
	var f domain.Folder
	err := a.do(ctx, http.MethodPut, "/api/folders/"+id, patch, &f)
	return f, err
}

func (a *API) Reorder(ctx context.Context, batch domain.Reorder) error {
	var out struct {
		Success bool `json:"success"`
	}
	if err := a.do(ctx, http.MethodPut, "/api/reorder", batch, &out); err != nil {
		return err
	}
	if !out.Success {
		return errors.New("reorder not acknowledged")
	}
	return nil
}
