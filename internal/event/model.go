package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// TagSeparator splits a single-string context into its tags ("fuite|urgence").
const TagSeparator = "|"

// Event is one logged occurrence (a diaper change, a meal...).
type Event struct {
	ID        int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Date      time.Time                   `gorm:"not null" json:"date"`
	Type      string                      `gorm:"not null" json:"type"`
	Nature    string                      `gorm:"not null" json:"nature"`
	Volume    string                      `gorm:"not null" json:"volume"`
	Context   datatypes.JSONSlice[string] `json:"context"`
	Comment   *string                     `json:"comment"`
	UserID    *int64                      `gorm:"index" json:"userId"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (Event) TableName() string {
	return "events"
}

// Tags is the context list as sent by clients: either an array of strings
// or one TagSeparator-joined string.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*t = SplitTags(joined)
		return nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("context must be a string or an array of strings: %w", err)
	}
	*t = tags
	return nil
}

// SplitTags splits a TagSeparator-joined string; an empty string has no tags.
func SplitTags(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, TagSeparator)
}
