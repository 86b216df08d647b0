// Package api embeds the OpenAPI document served at /openapi.yml and used to
// validate incoming requests.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
