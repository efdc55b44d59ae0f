package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/reconcile"
)

func sampleGist() *gist.Gist {
	return &gist.Gist{
		ID:          "abc123def456",
		Description: "sample gist",
		Public:      true,
		HTMLURL:     "https://gist.github.com/user/abc123def456",
		Files:       []string{"a.py", "b.md"},
		UpdatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" table ", FormatTable, false},
		{"minimal", FormatMinimal, false},
		{"csv", FormatCSV, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGistJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.Gist(sampleGist(), "Created"))

	var decoded gist.Gist
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "abc123def456", decoded.ID)
	assert.Equal(t, []string{"a.py", "b.md"}, decoded.Files)
}

func TestGistMinimal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatMinimal)

	require.NoError(t, r.Gist(sampleGist(), "Created"))
	assert.Equal(t, "https://gist.github.com/user/abc123def456\n", buf.String())
}

func TestGistListMinimal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatMinimal)

	require.NoError(t, r.GistList([]*gist.Gist{sampleGist()}))
	assert.Equal(t, "abc123def456\thttps://gist.github.com/user/abc123def456\n", buf.String())
}

func TestGistListCSV(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatCSV)

	require.NoError(t, r.GistList([]*gist.Gist{sampleGist()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,description,public,files,updated_at", lines[0])
	assert.Equal(t, "abc123def456,sample gist,true,a.py;b.md,2024-05-01T10:00:00Z", lines[1])
}

func TestPlanText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText)

	plan, err := reconcile.BuildPlan(reconcile.Request{
		Current: &reconcile.RemoteGistState{
			ID: "abc123def456",
			Files: map[string]reconcile.RemoteFile{
				"old.py":  {Filename: "old.py", Content: "old"},
				"gone.py": {Filename: "gone.py", Content: "x"},
			},
		},
		Desired: map[string]reconcile.DesiredFile{
			"new.py": {Filename: "new.py", Content: "new"},
			"old.py": {Filename: "old.py", Content: "changed"},
		},
		ExplicitRemovals: []string{"gone.py"},
	}, reconcile.DefaultLimits())
	require.NoError(t, err)

	require.NoError(t, r.Plan("abc123def456", plan))

	out := buf.String()
	assert.Contains(t, out, "+ add")
	assert.Contains(t, out, "new.py")
	assert.Contains(t, out, "~ update")
	assert.Contains(t, out, "old.py")
	assert.Contains(t, out, "- remove")
	assert.Contains(t, out, "gone.py")
}

func TestPlanJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	plan, err := reconcile.BuildPlan(reconcile.Request{
		Current: &reconcile.RemoteGistState{ID: "abc123def456"},
		Desired: map[string]reconcile.DesiredFile{
			"a.py": {Filename: "a.py", Content: "x"},
		},
	}, reconcile.DefaultLimits())
	require.NoError(t, err)

	require.NoError(t, r.Plan("abc123def456", plan))

	var decoded struct {
		GistID     string `json:"gist_id"`
		HasChanges bool   `json:"has_changes"`
		Operations []struct {
			Kind     string `json:"operation"`
			Filename string `json:"filename"`
		} `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "abc123def456", decoded.GistID)
	assert.True(t, decoded.HasChanges)
	require.Len(t, decoded.Operations, 1)
	assert.Equal(t, "add", decoded.Operations[0].Kind)
	assert.Equal(t, "a.py", decoded.Operations[0].Filename)
}

func TestBatchResultJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	result := &gist.BatchResult{
		Deleted: []string{"good1"},
		Failed:  []gist.BatchFailure{{ID: "missing", Error: "gist not found"}},
	}
	require.NoError(t, r.BatchResult(result))

	var decoded gist.BatchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"good1"}, decoded.Deleted)
	require.Len(t, decoded.Failed, 1)
	assert.Equal(t, "missing", decoded.Failed[0].ID)
}
