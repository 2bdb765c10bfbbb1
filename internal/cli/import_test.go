// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-church-sync/internal/service"
)

const testBackup = `{"members":[{"id":"m1","name":"Ana"}],"notices":[{"id":"n1","text":"Culto de oração"}]}`

func exportWith(t *testing.T, opts *RootOptions) string {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewExportCommand(opts)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestImportThenExport(t *testing.T) {
	opts := testRootOptions(t)
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(testBackup), 0o600))

	stderr := &bytes.Buffer{}
	cmd := NewImportCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "pushed to the remote store")

	backup := decodeBackup(t, []byte(exportWith(t, opts)))
	assert.Contains(t, string(backup["members"]), `"m1"`)
	assert.Contains(t, string(backup["notices"]), `"n1"`)
}

func TestImportFromStdin(t *testing.T) {
	opts := testRootOptions(t)

	cmd := NewImportCommand(opts)
	cmd.SetIn(strings.NewReader(testBackup))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, exportWith(t, opts), `"Ana"`)
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		wantErr error
	}{
		{name: "malformed", content: `{"members":{"id":"1"}}`, wantErr: service.ErrMalformedImport},
		{name: "no known collections", content: `{"theme":"dark"}`, wantErr: service.ErrMalformedImport},
		{name: "missing file", missing: true, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testRootOptions(t)
			path := filepath.Join(t.TempDir(), "backup.json")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			}

			cmd := NewImportCommand(opts)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{path})

			err := cmd.Execute()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImportRequiresPath(t *testing.T) {
	cmd := NewImportCommand(testRootOptions(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}
