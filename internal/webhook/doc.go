// Package webhook implements the HTTP ingress for PandaDoc webhook
// callbacks.
//
// PandaDoc delivers one JSON array per call, each element an {event, data}
// envelope entry. The server validates the optional HMAC-SHA256 signature,
// routes every entry through the normalization engine, journals the
// delivery, and forwards normalized payloads to the workflow bus.
//
// # Security Model
//
// - HMAC-SHA256 signatures verified using crypto/subtle (constant-time comparison)
// - Body size limits enforced to prevent DoS
// - No signature details leaked in error responses (always generic 403)
// - Request logging excludes payload bodies
//
// PandaDoc sends the signature as a "signature" query parameter; a header
// name can be configured instead for proxies that relocate it. Verification
// is off by default because upstream ships webhooks unsigned unless
// configured; when enabled, a failed signature rejects the whole request
// before any entry is routed.
//
// # Request Flow
//
//  1. HTTP POST arrives at /pandadoc/webhook or /pandadoc/webhook/{tenant}
//  2. Body size checked (reject with 413 if too large)
//  3. Signature verified when enabled (reject with 403 on mismatch)
//  4. Body routed entry by entry; unrecognized event types and per-entry
//     validation failures are recorded, never fatal for siblings
//  5. Delivery and per-entry outcomes journaled
//  6. 202 Accepted returned with delivery id and outcome counts
//
// # Error Responses
//
// - 400 Bad Request: body is not an array of {event, data} objects
// - 403 Forbidden: invalid or missing signature (no details)
// - 413 Payload Too Large: body exceeds max_body_size
//
// The trailing path segment, when present, is an opaque per-tenant
// identifier carried into delivery metadata. It is not otherwise validated.
package webhook
