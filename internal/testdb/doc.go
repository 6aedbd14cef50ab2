// Package testdb provides utilities specifically for database testing:
// migrated in-memory SQLite databases for unit tests and access to a
// PostgreSQL database for integration tests (DATABASE_URL).
package testdb
