// Package adapter is the single entry point shared by the HTTP API, the MCP
// tool server and the CLI.
//
// Key functions:
//   - InferMapping: infer a mapping from a sample response to a compiled schema
//   - TransformAndValidate: apply a mapping to a raw response and validate
//     the result, returning both together
//   - Service: request-level wrapper adding argument checks, schema caching,
//     logging and metrics
package adapter
