package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func remoteState(desc *string, files map[string]string) *RemoteGistState {
	state := &RemoteGistState{
		ID:          "abc123def456",
		Description: desc,
		Files:       make(map[string]RemoteFile, len(files)),
	}
	for name, content := range files {
		state.Files[name] = RemoteFile{Filename: name, Content: content, Size: len(content)}
	}
	return state
}

func desired(files map[string]string) map[string]DesiredFile {
	out := make(map[string]DesiredFile, len(files))
	for name, content := range files {
		out[name] = DesiredFile{Filename: name, Content: content}
	}
	return out
}

func TestValidate(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name     string
		filename string
		content  string
		wantCode DiagCode
		wantOK   bool
	}{
		{
			name:     "plain filename passes",
			filename: "main.py",
			content:  "print('hello')",
			wantOK:   true,
		},
		{
			name:     "empty filename rejected",
			filename: "",
			content:  "x",
			wantCode: DiagInvalidFilename,
		},
		{
			name:     "reserved prefix rejected",
			filename: "gistfile1.txt",
			content:  "x",
			wantCode: DiagInvalidFilename,
		},
		{
			name:     "reserved prefix is case sensitive",
			filename: "Gistfile1.txt",
			content:  "x",
			wantOK:   true,
		},
		{
			name:     "forward slash rejected",
			filename: "src/main.py",
			content:  "x",
			wantCode: DiagInvalidFilename,
		},
		{
			name:     "backslash rejected",
			filename: `src\main.py`,
			content:  "x",
			wantCode: DiagInvalidFilename,
		},
		{
			name:     "null byte classifies as binary",
			filename: "blob.bin",
			content:  "abc\x00def",
			wantCode: DiagUnsupportedContent,
		},
		{
			name:     "invalid utf-8 classifies as binary",
			filename: "latin1.txt",
			content:  "caf\xe9",
			wantCode: DiagUnsupportedContent,
		},
		{
			name:     "valid utf-8 with unusual bytes passes",
			filename: "emoji.txt",
			content:  "héllo ☃ \U0001F600 \uFEFF",
			wantOK:   true,
		},
		{
			name:     "empty content is text",
			filename: "empty.txt",
			content:  "",
			wantOK:   true,
		},
		{
			name:     "content over the ceiling rejected",
			filename: "big.txt",
			content:  strings.Repeat("a", int(limits.MaxFileSize)+1),
			wantCode: DiagFileTooLarge,
		},
		{
			name:     "content at the ceiling passes",
			filename: "exact.txt",
			content:  strings.Repeat("a", int(limits.MaxFileSize)),
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := Validate(tt.filename, tt.content, limits)
			if tt.wantOK {
				assert.Nil(t, diag)
				return
			}
			require.NotNil(t, diag)
			assert.Equal(t, tt.wantCode, diag.Code)
			assert.Equal(t, tt.filename, diag.Filename)
		})
	}
}

func TestValidateConfigurableCeiling(t *testing.T) {
	limits := Limits{MaxFileSize: 10, ReservedPrefix: "gistfile"}

	assert.Nil(t, Validate("a.txt", "1234567890", limits))

	diag := Validate("a.txt", "12345678901", limits)
	require.NotNil(t, diag)
	assert.Equal(t, DiagFileTooLarge, diag.Code)
}

func TestBuildPlanNilCurrent(t *testing.T) {
	_, err := BuildPlan(Request{}, DefaultLimits())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBuildPlanAddOnly(t *testing.T) {
	req := Request{
		Current: remoteState(nil, map[string]string{}),
		Desired: desired(map[string]string{"a.py": "x"}),
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	require.Len(t, plan.Operations, 1)
	assert.Equal(t, FileOperation{Kind: OpAdd, Filename: "a.py", Content: "x"}, plan.Operations[0])
	assert.True(t, plan.HasChanges())
	assert.Empty(t, plan.Diagnostics)
}

func TestBuildPlanUpdateDetection(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		desired    string
		wantOps    int
		wantUpdate bool
	}{
		{
			name:       "different content schedules update",
			current:    "x",
			desired:    "y",
			wantOps:    1,
			wantUpdate: true,
		},
		{
			name:    "identical content is a no-op",
			current: "x",
			desired: "x",
			wantOps: 0,
		},
		{
			name:       "line ending difference counts as change",
			current:    "a\nb\n",
			desired:    "a\r\nb\r\n",
			wantOps:    1,
			wantUpdate: true,
		},
		{
			name:       "trailing whitespace counts as change",
			current:    "a",
			desired:    "a ",
			wantOps:    1,
			wantUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{
				Current: remoteState(nil, map[string]string{"a.py": tt.current}),
				Desired: desired(map[string]string{"a.py": tt.desired}),
			}

			plan, err := BuildPlan(req, DefaultLimits())
			require.NoError(t, err)

			assert.Len(t, plan.Operations, tt.wantOps)
			if tt.wantUpdate {
				assert.Equal(t, OpUpdate, plan.Operations[0].Kind)
				assert.Equal(t, tt.desired, plan.Operations[0].Content)
			}
		})
	}
}

func TestBuildPlanNoOpStability(t *testing.T) {
	files := map[string]string{"a.py": "x", "b.py": "y"}
	req := Request{
		Current: remoteState(strPtr("demo"), files),
		Desired: desired(files),
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	assert.Empty(t, plan.Operations)
	assert.False(t, plan.DescriptionChanged)
	assert.False(t, plan.HasChanges())
}

func TestBuildPlanSyncRemoval(t *testing.T) {
	req := Request{
		Current: remoteState(nil, map[string]string{"a.py": "x", "b.py": "y"}),
		Desired: desired(map[string]string{"a.py": "x"}),
		Sync:    true,
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	require.Len(t, plan.Operations, 1)
	assert.Equal(t, FileOperation{Kind: OpRemove, Filename: "b.py"}, plan.Operations[0])
}

func TestBuildPlanNonSyncPreservation(t *testing.T) {
	req := Request{
		Current: remoteState(nil, map[string]string{"a.py": "x", "b.py": "y"}),
		Desired: desired(map[string]string{"a.py": "x"}),
		Sync:    false,
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	assert.Empty(t, plan.Operations)
	assert.False(t, plan.HasChanges())
}

func TestBuildPlanExplicitRemovals(t *testing.T) {
	req := Request{
		Current:          remoteState(nil, map[string]string{"old.py": "x", "keep.py": "y"}),
		ExplicitRemovals: []string{"old.py", "missing.py"},
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	require.Len(t, plan.Operations, 1)
	assert.Equal(t, FileOperation{Kind: OpRemove, Filename: "old.py"}, plan.Operations[0])

	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, DiagNotFoundLocally, plan.Diagnostics[0].Code)
	assert.Equal(t, "missing.py", plan.Diagnostics[0].Filename)
}

func TestBuildPlanRemovalNeverShadowsUpdate(t *testing.T) {
	// A file both updated and explicitly removed keeps the update; a
	// filename never appears in more than one operation.
	req := Request{
		Current:          remoteState(nil, map[string]string{"a.py": "x"}),
		Desired:          desired(map[string]string{"a.py": "y"}),
		ExplicitRemovals: []string{"a.py"},
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	require.Len(t, plan.Operations, 1)
	assert.Equal(t, OpUpdate, plan.Operations[0].Kind)
}

func TestBuildPlanInvalidFileDoesNotAbort(t *testing.T) {
	req := Request{
		Current: remoteState(nil, map[string]string{}),
		Desired: desired(map[string]string{
			"gistfile1.txt": "x",
			"valid.py":      "y",
		}),
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	require.Len(t, plan.Operations, 1)
	assert.Equal(t, "valid.py", plan.Operations[0].Filename)

	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, DiagInvalidFilename, plan.Diagnostics[0].Code)
	assert.Equal(t, "gistfile1.txt", plan.Diagnostics[0].Filename)
}

func TestBuildPlanDescriptionChange(t *testing.T) {
	tests := []struct {
		name        string
		current     *string
		new         *string
		wantChanged bool
	}{
		{
			name:        "nil new description leaves it untouched",
			current:     strPtr("old"),
			new:         nil,
			wantChanged: false,
		},
		{
			name:        "different description marks change",
			current:     strPtr("old"),
			new:         strPtr("new"),
			wantChanged: true,
		},
		{
			name:        "identical description is a no-op",
			current:     strPtr("same"),
			new:         strPtr("same"),
			wantChanged: false,
		},
		{
			name:        "setting description on undescribed gist",
			current:     nil,
			new:         strPtr("fresh"),
			wantChanged: true,
		},
		{
			name:        "clearing description",
			current:     strPtr("old"),
			new:         strPtr(""),
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{
				Current:        remoteState(tt.current, map[string]string{}),
				NewDescription: tt.new,
			}

			plan, err := BuildPlan(req, DefaultLimits())
			require.NoError(t, err)

			assert.Equal(t, tt.wantChanged, plan.DescriptionChanged)
			assert.Equal(t, tt.wantChanged, plan.HasChanges())
		})
	}
}

func TestBuildPlanDeterministicOrdering(t *testing.T) {
	req := Request{
		Current: remoteState(nil, map[string]string{
			"m.py":    "old",
			"gone.py": "x",
			"also.py": "y",
		}),
		Desired: desired(map[string]string{
			"z.py": "new",
			"a.py": "new",
			"m.py": "changed",
		}),
		Sync: true,
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	var got []string
	for _, op := range plan.Operations {
		got = append(got, string(op.Kind)+":"+op.Filename)
	}
	assert.Equal(t, []string{
		"add:a.py",
		"add:z.py",
		"update:m.py",
		"remove:also.py",
		"remove:gone.py",
	}, got)
}

func TestBuildPlanIdempotence(t *testing.T) {
	req := Request{
		Current: remoteState(strPtr("desc"), map[string]string{
			"a.py": "1",
			"b.py": "2",
			"c.py": "3",
		}),
		Desired: desired(map[string]string{
			"a.py": "1",
			"b.py": "changed",
			"d.py": "new",
		}),
		ExplicitRemovals: []string{"c.py"},
		NewDescription:   strPtr("desc2"),
	}

	first, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)
	second, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, first.Operations, second.Operations)
	assert.Equal(t, first.DescriptionChanged, second.DescriptionChanged)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestBuildPlanDoesNotMutateCurrent(t *testing.T) {
	current := remoteState(strPtr("desc"), map[string]string{"a.py": "x"})
	req := Request{
		Current:          current,
		Desired:          desired(map[string]string{"a.py": "y", "b.py": "z"}),
		ExplicitRemovals: []string{"a.py"},
		Sync:             true,
	}

	_, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, "x", current.Files["a.py"].Content)
	assert.Len(t, current.Files, 1)
	assert.Equal(t, "desc", *current.Description)
}

func TestToWirePayload(t *testing.T) {
	req := Request{
		Current: remoteState(strPtr("old"), map[string]string{
			"upd.py": "before",
			"del.py": "x",
		}),
		Desired: desired(map[string]string{
			"upd.py": "after",
			"new.py": "fresh",
		}),
		ExplicitRemovals: []string{"del.py"},
		NewDescription:   strPtr("new description"),
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	payload := ToWirePayload(plan)

	require.NotNil(t, payload.Description)
	assert.Equal(t, "new description", *payload.Description)

	require.Len(t, payload.Files, 3)
	require.NotNil(t, payload.Files["new.py"])
	assert.Equal(t, "fresh", payload.Files["new.py"].Content)
	require.NotNil(t, payload.Files["upd.py"])
	assert.Equal(t, "after", payload.Files["upd.py"].Content)

	entry, present := payload.Files["del.py"]
	assert.True(t, present)
	assert.Nil(t, entry)
}

func TestToWirePayloadOmitsUnchangedDescription(t *testing.T) {
	req := Request{
		Current:        remoteState(strPtr("same"), map[string]string{}),
		Desired:        desired(map[string]string{"a.py": "x"}),
		NewDescription: strPtr("same"),
	}

	plan, err := BuildPlan(req, DefaultLimits())
	require.NoError(t, err)

	payload := ToWirePayload(plan)
	assert.Nil(t, payload.Description)
	assert.Len(t, payload.Files, 1)
}
