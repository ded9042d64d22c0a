package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemPatchFolderIDPresence(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantSet bool
		wantID  *string
	}{
		{name: "absent", body: `{"title":"x"}`},
		{name: "null", body: `{"folderId":null}`, wantSet: true},
		{name: "value", body: `{"folderId":"f1"}`, wantSet: true, wantID: strp("f1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p ItemPatch
			require.NoError(t, json.Unmarshal([]byte(tc.body), &p))
			assert.Equal(t, tc.wantSet, p.FolderID.Set)
			assert.Equal(t, tc.wantID, p.FolderID.Value)
		})
	}
}

func TestItemPatchOmitsUnsetFolderID(t *testing.T) {
	title := "renamed"
	data, err := json.Marshal(ItemPatch{Title: &title})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"renamed"}`, string(data))

	data, err = json.Marshal(ItemPatch{FolderID: NullID()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"folderId":null}`, string(data))

	data, err = json.Marshal(ItemOrder{ID: "i1", Order: 2, FolderID: SomeID("f1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"i1","order":2,"folderId":"f1"}`, string(data))
}

func TestFolderIDRejectsNonString(t *testing.T) {
	var p ItemPatch
	assert.Error(t, json.Unmarshal([]byte(`{"folderId":12}`), &p))
}

func strp(s string) *string { return &s }
