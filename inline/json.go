package inline

import (
	"encoding/json"

	"github.com/filmscout/filmscout/source"
)

// Title is a picked search result with its episodes.
type Title struct {
	*source.SearchResult
	Episodes []*source.Episode `json:"episodes,omitempty"`
}

type Output struct {
	Query  string   `json:"query"`
	Type   string   `json:"type"`
	Result []*Title `json:"result"`
}

func asJson(titles []*Title, options *Options) ([]byte, error) {
	if titles == nil {
		titles = []*Title{}
	}

	return json.Marshal(&Output{
		Query:  options.Query,
		Type:   options.Filter.String(),
		Result: titles,
	})
}
