// internal/profiles/inline.go
package profiles

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/validation"
	"booking-workers/internal/compatibility"
)

// HasInline reports whether a job carried an inline payload.
func HasInline(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func DecodeRider(raw json.RawMessage) (compatibility.Rider, error) {
	return decodeInline[compatibility.Rider](validation.SchemaRider, raw)
}

func DecodeVenue(raw json.RawMessage) (compatibility.Venue, error) {
	return decodeInline[compatibility.Venue](validation.SchemaVenue, raw)
}

func decodeInline[T any](schema validation.Schema, raw json.RawMessage) (T, error) {
	var out T

	result, err := validation.ValidateJSON(schema, raw)
	if err != nil {
		return out, apperrors.NewProfileValidationFailedError(fmt.Sprintf("%s: %v", schema, err))
	}
	if !result.Valid {
		return out, apperrors.NewProfileValidationFailedError(fmt.Sprintf("%s: %s", schema, result.Summary())).
			WithMetadata("fields", result.Errors)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, apperrors.NewProfileValidationFailedError(fmt.Sprintf("%s: %v", schema, err))
	}
	return out, nil
}
