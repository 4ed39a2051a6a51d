// Package main provides the CLI entrypoint for agent-api-adapter.
//
// agent-api-adapter maps arbitrary upstream API responses onto an
// agent-facing JSON Schema:
//   - Infers a field mapping from a sample response (generate)
//   - Applies the mapping and validates the result (transform)
//   - Serves both operations over HTTP (serve) and MCP stdio (mcp)
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
