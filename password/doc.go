// Package password provides argon2id hashing with a PHC-encoded digest.
// Each call to Hash draws a fresh random salt, so two hashes of the same
// plaintext differ. Verify runs a constant-time comparison and fails
// closed: a malformed digest is simply "no match", never an error a
// caller could mistake for success.
package password
