// Package auth provides authentication primitives for the signage server:
// Argon2id password hashing in PHC string format, HS256 JWT access tokens
// for the single admin account, and single-use WebSocket tickets.
//
// There is no user database. The admin credential lives in config as a
// username plus an Argon2id hash; both the admin UI and the displays use
// the ticket flow to open their WebSocket.
package auth
