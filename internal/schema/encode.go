package schema

import "encoding/json"

// Wire re-serializes the document under its wire field names ("id", "type",
// ...) as a generic mapping. For any document produced by Decode the result
// round-trips with the accepted subset of the original payload; unknown
// input fields are not preserved, and absent optionals serialize as null.
func (d *Document) Wire() (map[string]any, error) {
	return toWire(d)
}

func toWire(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
