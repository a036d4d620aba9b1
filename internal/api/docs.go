package api

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/phrazzld/taskmanagement-api/internal/api/shared"
)

// OpenAPIPath is where the router serves the OpenAPI document when
// server.docs_enabled is set.
const OpenAPIPath = "/swagger/v1/swagger.json"

//go:embed openapi.json
var openAPIDocument []byte

// OpenAPIHandler serves the embedded OpenAPI 3 description of the /Tasks
// endpoints.
func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, json.RawMessage(openAPIDocument))
}
