package transport

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexibleID accepts an id sent as a JSON string, a JSON number or a form value.
// It keeps the raw text; the service decides whether it is a usable id.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	*id = FlexibleID(data)
	return nil
}

func (id *FlexibleID) UnmarshalParam(param string) error {
	*id = FlexibleID(strings.TrimSpace(param))
	return nil
}

type ActivityRequest struct {
	ActivityType string     `json:"activity_type" form:"activity_type" validate:"required"`
	FoodID       FlexibleID `json:"food_id" form:"food_id"`
	VendorID     FlexibleID `json:"vendor_id" form:"vendor_id"`
	SearchQuery  string     `json:"search_query" form:"search_query"`
}

type ActivityResponse struct {
	Status string `json:"status"`
}

type ReviewRequest struct {
	OrderNumber string `json:"order_number" form:"order_number" validate:"required,max=20"`
	FoodItemID  uint   `json:"food_item_id" form:"food_item_id" validate:"required"`
	Rating      int    `json:"rating" form:"rating" validate:"min=1,max=5"`
	ReviewText  string `json:"review_text" form:"review_text" validate:"max=500"`
}
