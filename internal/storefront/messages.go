package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/models"
)

// MessagesMapping is the index mapping of the inbox messages index.
const MessagesMapping = `{
  "mappings": {
    "properties": {
      "id":        {"type": "keyword"},
      "name":      {"type": "text"},
      "email":     {"type": "keyword"},
      "phone":     {"type": "keyword"},
      "subject":   {"type": "text"},
      "body":      {"type": "text"},
      "category":  {"type": "keyword"},
      "status":    {"type": "keyword"},
      "priority":  {"type": "keyword"},
      "createdAt": {"type": "date"},
      "repliedAt": {"type": "date"}
    }
  }
}`

type messageSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source models.Message `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Messages returns the newest messages of the inbox index, newest first. A
// missing index is an empty inbox.
func (r *Repository) Messages(ctx context.Context) ([]models.Message, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  []interface{}{map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.messagesIndex),
		r.es.Search.WithBody(bytes.NewReader(payload)),
		r.es.Search.WithSize(r.messagesLimit),
	)
	if err != nil {
		return nil, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		r.logger.Warn("messages index not found", map[string]interface{}{"index": r.messagesIndex})
		return []models.Message{}, nil
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(r.messagesIndex, fmt.Errorf("%s", res.String()))
	}

	var sr messageSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, errors.NewSearchQueryFailedError(r.messagesIndex, fmt.Errorf("decode response: %w", err))
	}

	messages := make([]models.Message, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		m := hit.Source
		if m.ID == "" {
			m.ID = hit.ID
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// EnsureMessagesIndex creates the inbox index when it does not exist.
func (r *Repository) EnsureMessagesIndex(ctx context.Context) error {
	res, err := r.es.Indices.Exists([]string{r.messagesIndex}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = r.es.Indices.Create(
		r.messagesIndex,
		r.es.Indices.Create.WithContext(ctx),
		r.es.Indices.Create.WithBody(strings.NewReader(MessagesMapping)),
	)
	if err != nil {
		return errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.NewSearchQueryFailedError(r.messagesIndex, fmt.Errorf("create index: %s", res.String()))
	}

	r.logger.Info("messages index created", map[string]interface{}{"index": r.messagesIndex})
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
	} `json:"items"`
}

// updateMessages applies one bulk request to the inbox index. status "" deletes
// the messages; otherwise their status is set. It returns the number of
// messages changed.
func (r *Repository) updateMessages(ctx context.Context, ids []string, status string) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, id := range ids {
		meta := map[string]interface{}{"_index": r.messagesIndex, "_id": id}
		if status == "" {
			if err := enc.Encode(map[string]interface{}{"delete": meta}); err != nil {
				return 0, err
			}
			continue
		}
		if err := enc.Encode(map[string]interface{}{"update": meta}); err != nil {
			return 0, err
		}
		if err := enc.Encode(map[string]interface{}{"doc": map[string]interface{}{"status": status}}); err != nil {
			return 0, err
		}
	}

	res, err := r.es.Bulk(
		&buf,
		r.es.Bulk.WithContext(ctx),
		r.es.Bulk.WithIndex(r.messagesIndex),
		r.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, errors.NewSearchQueryFailedError(r.messagesIndex, fmt.Errorf("bulk: %s", res.String()))
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, errors.NewSearchQueryFailedError(r.messagesIndex, fmt.Errorf("decode bulk response: %w", err))
	}

	changed := 0
	var failed []string
	for _, item := range br.Items {
		for _, result := range item {
			if result.Status >= 200 && result.Status < 300 {
				changed++
			} else {
				failed = append(failed, result.ID)
			}
		}
	}
	if len(failed) > 0 {
		r.logger.Warn("bulk message update partially failed", map[string]interface{}{
			"failed": failed,
			"status": status,
		})
	}
	return changed, nil
}
