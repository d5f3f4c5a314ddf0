package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRequest_FlexibleIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		food   FlexibleID
		vendor FlexibleID
	}{
		{name: "numbers", body: `{"activity_type":"view","food_id":17,"vendor_id":3}`, food: "17", vendor: "3"},
		{name: "strings", body: `{"activity_type":"view","food_id":"17","vendor_id":"abc"}`, food: "17", vendor: "abc"},
		{name: "null and missing", body: `{"activity_type":"view","food_id":null}`, food: "", vendor: ""},
		{name: "float", body: `{"activity_type":"cart","food_id":1.5}`, food: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req ActivityRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.food, req.FoodID)
			assert.Equal(t, tt.vendor, req.VendorID)
		})
	}
}

func TestFlexibleID_UnmarshalParam(t *testing.T) {
	t.Parallel()

	var id FlexibleID
	require.NoError(t, id.UnmarshalParam(" 42 "))
	assert.Equal(t, FlexibleID("42"), id)
}
