// Package v2 provides a custom Hue V2 API (CLIP) resource client.
//
// This is a hand-written implementation because huego only speaks the V1
// API, and the room/zone/device/grouped_light model only exists in CLIP v2.
//
// The client is read-only and does no caching: it performs GET requests and
// decodes the {"errors": [...], "data": [...]} envelope every CLIP v2
// resource endpoint returns. Interpreting the errors list is left to callers.
//
// The V2 API uses HTTPS with self-signed certificates (requires TLS skip verify).
package v2
