// Package httpapi exposes the adapter over HTTP.
//
// Routes:
//   - POST /generate: {sampleApiResponse, targetSchema} -> {mappingConfig}
//     (add ?explain=true for per-property match details)
//   - POST /transform: {rawApiResponse, mappingConfig, targetSchema} ->
//     {transformed, absent, validation}
//   - GET /healthz, GET /readyz, GET /metrics
//
// Errors are returned as {"error": message, "kind": kind} with status 400
// for invalid arguments, 422 for schema configuration errors and 413 for
// oversized bodies.
package httpapi
