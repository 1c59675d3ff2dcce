package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listpipe/internal/record"
)

func TestParseJSONList(t *testing.T) {
	data := []byte(`[{"name":"vpc","enabled":true},{"name":"eks","count":3}]`)

	records, err := Parse(data, ".json")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "vpc", record.GetString(records[0], "name"))
	assert.Equal(t, "3", record.GetString(records[1], "count"))
}

func TestParseYAMLList(t *testing.T) {
	data := []byte(`
- name: vpc
  vars:
    region: us-east-2
- name: eks
`)
	records, err := Parse(data, ".yaml")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "us-east-2", record.GetString(records[0], "vars.region"))
}

func TestParseWrappedRecords(t *testing.T) {
	data := []byte(`{"records":[{"name":"vpc"}]}`)
	records, err := Parse(data, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestParseExtensionSniffing(t *testing.T) {
	// No extension hint: JSON first, YAML fallback.
	records, err := Parse([]byte(`[{"name":"a"}]`), "")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = Parse([]byte("- name: a\n- name: b\n"), "")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseRejectsNonRecords(t *testing.T) {
	_, err := Parse([]byte(`{"not":"a list"}`), ".json")
	assert.ErrorIs(t, err, ErrBadDocument)

	_, err = Parse([]byte(`["scalar","items"]`), ".json")
	assert.ErrorIs(t, err, ErrBadDocument)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{{{{`), ".json")
	require.Error(t, err)
}

func TestFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: vpc\n"), 0o644))

	records, err := (&File{Path: path}).Fetch()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "vpc", record.GetString(records[0], "name"))
}

func TestFileFetchMissing(t *testing.T) {
	_, err := (&File{Path: filepath.Join(t.TempDir(), "nope.json")}).Fetch()
	require.Error(t, err)
}

func TestReaderFetch(t *testing.T) {
	r := &Reader{R: strings.NewReader(`[{"name":"vpc"}]`)}
	records, err := r.Fetch()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
