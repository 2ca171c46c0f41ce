package flickr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RecentResponse is the envelope of a flickr.photos.getRecent JSON response
type RecentResponse struct {
	Photos  *PhotosDTO `json:"photos"`
	Stat    string     `json:"stat"`
	Code    int        `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
}

// PhotosDTO is the "photos" object of a listing response
type PhotosDTO struct {
	Page    flexInt    `json:"page"`
	PerPage flexInt    `json:"perpage"`
	Pages   flexInt    `json:"pages"`
	Total   flexInt    `json:"total"`
	Photo   []PhotoDTO `json:"photo"`
}

// PhotoDTO is one photo as transported
type PhotoDTO struct {
	ID       string  `json:"id"`
	Owner    string  `json:"owner"`
	Secret   string  `json:"secret"`
	Server   string  `json:"server"`
	Farm     flexInt `json:"farm"`
	Title    string  `json:"title"`
	IsPublic flexInt `json:"ispublic"`
	IsFriend flexInt `json:"isfriend"`
	IsFamily flexInt `json:"isfamily"`
}

// APIError is a well-formed response whose stat is not "ok"
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// flexInt accepts both 42 and "42"; the API is not consistent about it
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", s, err)
		}
		*n = flexInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}
