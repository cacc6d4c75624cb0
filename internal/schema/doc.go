// Package schema models the entities carried in PandaDoc webhook payloads
// and validates loosely-typed JSON into them.
//
// The wire format is a JSON object tree whose real-world shape frequently
// deviates from the ideal. Decode walks a generic decoded JSON value against
// the declared entity shape, collecting every violation it finds (not just
// the first) with a dotted, indexed path locating each failing field:
//
//	pricing.tables[0].items[2].discount.type: expected string, got number
//
// Scalar typing is strict (no numeric-to-string coercion), declared unions
// are permissive (any member matches), enumerations match exactly, and
// unknown extra fields are ignored except where an entity forbids them (the
// empty pricing marker). Fields the upstream service leaves unspecified
// (signing order, the open maps in pricing items) are carried as opaque
// values and re-emitted unchanged.
//
// Every entity keeps its wire names in JSON tags, so a decoded value
// re-serializes under the original field names, including the reserved-ish
// "id" and "type" keys.
package schema
