// Package api holds the OpenAPI description served by the swagger UI.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
