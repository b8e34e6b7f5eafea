package bugzilla

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	bugzillav1 "github.com/openshift-eng/bugzilla-client/pkg/apis/bugzilla/v1"
)

// DecodeBug converts a raw, post-translated bug record into the typed
// view. Decoding is weakly typed because the server is not consistent
// about numeric widths across versions.
func DecodeBug(record map[string]interface{}) (*bugzillav1.Bug, error) {
	var bug bugzillav1.Bug
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &bug,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(record); err != nil {
		return nil, errors.Wrap(err, "decoding bug record")
	}
	return &bug, nil
}

// DecodeBugs converts a slice of raw records, skipping the nil slots a
// lenient batched lookup leaves behind.
func DecodeBugs(records []map[string]interface{}) ([]bugzillav1.Bug, error) {
	bugs := make([]bugzillav1.Bug, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		bug, err := DecodeBug(record)
		if err != nil {
			return nil, err
		}
		bugs = append(bugs, *bug)
	}
	return bugs, nil
}
