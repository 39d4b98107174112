package inline

import (
	"encoding/json"

	"github.com/trimmer-cli/trimmer/source"
)

type Entry struct {
	Item *source.Item `json:"item"`
	// Tracks is present when tracks were requested and fetched successfully.
	Tracks *source.Tracks `json:"tracks,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type Output struct {
	Input    string   `json:"input"`
	Provider string   `json:"provider"`
	Items    []*Entry `json:"items"`
}

func asJson(provider, input string, entries []*Entry) ([]byte, error) {
	if entries == nil {
		entries = []*Entry{}
	}

	return json.Marshal(&Output{
		Input:    input,
		Provider: provider,
		Items:    entries,
	})
}
