package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/phrazzld/taskmanagement-api/internal/domain"
)

// DecodeJSON decodes the request body into the given struct.
// An empty body is reported as domain.ErrEmptyPayload.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return domain.ErrEmptyPayload
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrEmptyPayload
		}
		return fmt.Errorf("%w: malformed JSON: %v", domain.ErrValidation, err)
	}
	return nil
}
