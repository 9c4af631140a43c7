// Package tokens persists the credential token pair between runs.
//
// The pair lives in a small key/value table ("credentials") under the keys
// access_token and refresh_token. SQLiteRepository is the raw key/value
// access; SQLiteStore builds the pair semantics on top of it and writes or
// erases both keys in one transaction. MemoryStore offers the same contract
// without a database and is meant for tests and ephemeral sessions.
package tokens
