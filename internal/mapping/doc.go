// Package mapping provides the mapping configuration produced by inference
// and the transformer that applies it to raw responses.
//
// # Mapping documents
//
// A mapping is an ordered object from target property to source key. A null
// source marks a target that inference could not resolve:
//
//	{
//	  "temperature": "temp_c",
//	  "humidity": "hum",
//	  "pressure": null
//	}
//
// The same document may be written as YAML:
//
//	temperature: temp_c
//	humidity: hum
//	pressure: null
//
// # Transform
//
// Apply copies raw[source] into each target without type coercion. Targets
// that are unresolved, or whose source key is missing from the raw response,
// receive the absent marker (payload.Absent), which is distinct from a raw
// JSON null. Absent lists those targets so callers can report them.
package mapping
