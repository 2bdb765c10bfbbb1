package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot_CompactsRecords(t *testing.T) {
	s, err := ParseSnapshot([]byte(`[ { "id" : "1", "name": "Ana" } ,{"id":"2"} ]`))
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, `{"id":"1","name":"Ana"}`, string(s[0]))
	assert.Equal(t, `{"id":"2"}`, string(s[1]))
}

func TestParseSnapshot_RoundTripIsIdempotent(t *testing.T) {
	in := []byte(`[{"id":"1","name":"Ana","tags":["a","b"],"meta":{"n":1.5,"ok":true,"none":null}}]`)

	first, err := ParseSnapshot(in)
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := ParseSnapshot(encoded)
	require.NoError(t, err)

	reencoded, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(encoded), string(reencoded))
	assert.True(t, first.Equal(second))
}

func TestParseSnapshot_RejectsNonArray(t *testing.T) {
	for _, in := range []string{``, `null`, `{"id":"1"}`, `"x"`, `42`} {
		_, err := ParseSnapshot([]byte(in))
		assert.ErrorIs(t, err, ErrSnapshotNotArray, "input %q", in)
	}
}

func TestParseSnapshot_RejectsMalformed(t *testing.T) {
	_, err := ParseSnapshot([]byte(`[{"id":"1"`))
	assert.Error(t, err)
}

func TestSnapshot_MarshalNilAsEmptyArray(t *testing.T) {
	var s Snapshot
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "empty", in: `[]`},
		{name: "valid", in: `[{"id":"1"},{"id":"2","x":1}]`},
		{name: "not object", in: `[1]`, wantErr: ErrRecordNotObject},
		{name: "array record", in: `[[]]`, wantErr: ErrRecordNotObject},
		{name: "missing id", in: `[{"name":"Ana"}]`, wantErr: ErrRecordMissingID},
		{name: "empty id", in: `[{"id":""}]`, wantErr: ErrRecordMissingID},
		{name: "numeric id", in: `[{"id":1}]`, wantErr: ErrRecordMissingID},
		{name: "duplicate", in: `[{"id":"1"},{"id":"1"}]`, wantErr: ErrDuplicateRecordID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustParseSnapshot(tt.in)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSnapshot_IDs(t *testing.T) {
	s := MustParseSnapshot(`[{"id":"b"},{"nope":1},{"id":"a"}]`)
	assert.Equal(t, []string{"b", "a"}, s.IDs())
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := MustParseSnapshot(`[{"id":"1"}]`)
	c := s.Clone()
	c[0][2] = 'X'
	assert.Equal(t, `{"id":"1"}`, string(s[0]))
	assert.NotNil(t, Snapshot(nil).Clone())
}

func TestSnapshot_Equal(t *testing.T) {
	a := MustParseSnapshot(`[{"id":"1"}]`)
	b := MustParseSnapshot(`[ {"id": "1"} ]`)
	c := MustParseSnapshot(`[{"id":"2"}]`)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, Snapshot(nil).Equal(Snapshot{}))
}

func TestCollections_Registry(t *testing.T) {
	names := CollectionNames()
	assert.Len(t, names, len(Collections))
	assert.Contains(t, names, "members")

	congs, ok := LookupCollection("congs")
	require.True(t, ok)
	assert.Equal(t, "congregations", congs.ExportName)
	assert.Equal(t, "churchData/congs", congs.RemotePath())
	assert.Equal(t, []string{"1"}, congs.Default.IDs())

	cults, ok := LookupExportName("weeklyCults")
	require.True(t, ok)
	assert.Equal(t, "cults", cults.Name)
	assert.Len(t, cults.Default, 5)
	assert.NoError(t, cults.Default.Validate())

	_, ok = LookupCollection("unknown")
	assert.False(t, ok)
	_, ok = LookupExportName("congs")
	assert.False(t, ok)
}
