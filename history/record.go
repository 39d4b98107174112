package history

import (
	"fmt"
	"time"

	"github.com/trimmer-cli/trimmer/source"
)

// Record is a single resolution kept in the history.
type Record struct {
	Provider string      `json:"provider"`
	Input    string      `json:"input"`
	Title    string      `json:"title"`
	Mode     source.Mode `json:"mode"`
	Items    int         `json:"items"`
	Count    int         `json:"count"`
	At       time.Time   `json:"at"`
}

// NewRecord describes the items resolved from input.
func NewRecord(provider, input string, mode source.Mode, items []*source.Item) *Record {
	record := &Record{
		Provider: provider,
		Input:    input,
		Mode:     mode,
		Items:    len(items),
	}

	if len(items) > 0 {
		record.Title = items[0].Title
	}

	return record
}

func (r *Record) encode() string {
	return fmt.Sprintf("%s (%s)", r.Input, r.Provider)
}

func (r *Record) String() string {
	return fmt.Sprintf("%s : %d item(s)", r.Title, r.Items)
}
