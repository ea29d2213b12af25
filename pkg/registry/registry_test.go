package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: id,
		Category:    "admin-query",
		TaskType:    id,
		Status:      StatusCompleted,
		Timeout:     "30s",
		ErrorCodes:  []string{"ADMIN_QUERY_INVALID"},
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"query"},
		},
	}
}

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	running := []string{
		"parse-admin-query",
		"aggregate-store-stats",
		"answer-admin-query",
		"apply-admin-action",
	}
	assert.Empty(t, reg.Missing(running))
	assert.Empty(t, reg.Incomplete(running))

	a, ok := reg.Find("apply-admin-action")
	require.True(t, ok)
	assert.Contains(t, a.ErrorCodes, "ACTION_NOT_CONFIRMED")
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "missing task type", mutate: func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, wantErr: "taskType"},
		{name: "duplicate id", mutate: func(r *ActivityRegistry) { r.Activities[1].ID = "a" }, wantErr: "duplicate activity id"},
		{name: "duplicate task type", mutate: func(r *ActivityRegistry) { r.Activities[1].TaskType = "a" }, wantErr: "duplicate task type"},
		{name: "bad timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, wantErr: "invalid timeout"},
		{name: "unknown status", mutate: func(r *ActivityRegistry) { r.Activities[0].Status = "done" }, wantErr: "unknown implementationStatus"},
		{name: "negative retries", mutate: func(r *ActivityRegistry) { r.Activities[1].Retries = -1 }, wantErr: "retries must not be negative"},
		{name: "lowercase error code", mutate: func(r *ActivityRegistry) { r.Activities[0].ErrorCodes = []string{"not_found"} }, wantErr: "invalid error code"},
		{
			name: "duplicate error code",
			mutate: func(r *ActivityRegistry) {
				r.Activities[0].ErrorCodes = []string{"STORE_LOAD_FAILED", "STORE_LOAD_FAILED"}
			},
			wantErr: "duplicate error code",
		},
		{
			name: "schema does not compile",
			mutate: func(r *ActivityRegistry) {
				r.Activities[0].OutputSchema = map[string]interface{}{"type": 42}
			},
			wantErr: "outputSchema does not compile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{validActivity("a"), validActivity("b")}}
			tt.mutate(reg)

			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestActivityRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "1.0.0", Activities: []Activity{validActivity("parse-admin-query")}}

	require.NoError(t, reg.Save(path))
	assert.NotEmpty(t, reg.LastUpdated)

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.LastUpdated, loaded.LastUpdated)
	assert.Equal(t, []string{"other"}, loaded.Missing([]string{"parse-admin-query", "other"}))
}

func TestActivityRegistry_Incomplete(t *testing.T) {
	planned := validActivity("apply-admin-action")
	planned.Status = StatusInProgress
	reg := &ActivityRegistry{Activities: []Activity{validActivity("parse-admin-query"), planned}}

	assert.Equal(t, []string{"apply-admin-action"},
		reg.Incomplete([]string{"parse-admin-query", "apply-admin-action", "unregistered"}))
}

func TestActivity_TimeoutDuration(t *testing.T) {
	a := validActivity("a")
	d, err := a.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	a.Timeout = ""
	d, err = a.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, os.IsNotExist(err))

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadRegistry(path)
	assert.ErrorContains(t, err, "parse registry")
}
