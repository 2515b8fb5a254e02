// Package docs embeds the static OpenAPI description served at
// /docs/openapi.yaml and rendered by the Swagger UI page.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
