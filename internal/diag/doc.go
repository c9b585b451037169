// Package diag defines the error model shared by every generation phase.
//
// # Taxonomy
//
//   - Configuration errors (ConfigError): invalid combinations supplied by the
//     surrounding build, e.g. a bus width the selected protocol cannot carry.
//     They abort generation of the affected register block.
//   - Shape errors (ShapeError, UnknownSubIdentifierError): selector arity that
//     does not match an identifier's dimensions, or a sub-identifier that was
//     never declared. These are integration errors and are never padded or
//     truncated away.
//   - I/O errors: reading register maps or writing generated files.
//
// Every error carries a stable Code. Producers return the typed errors; the
// pipeline converts them into Diagnostic records and collects them in a Bag so
// the CLI can render one line per failure in a deterministic order.
//
// Package diag does not perform any formatting beyond Diagnostic.String and
// has no dependencies on other internal packages.
package diag
