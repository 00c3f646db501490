// Package hash provides the one-way digests used by the challenge flow.
//
// Two digests live here: a keyed HMAC-SHA256 used to derive store keys from
// subject addresses (so the plaintext address is never a lookup key), and a
// plain salted SHA-256 used to store challenge codes. Both are deterministic
// across process restarts; comparisons are constant-time.
package hash
