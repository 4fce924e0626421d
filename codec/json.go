package codec

import "encoding/json"

// JSON encodes with encoding/json. Its output is byte-compatible with GoJSON
// for manifests and labels, so runs written by either decode with both.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns NameJSON.
func (JSON) Name() string { return NameJSON }
