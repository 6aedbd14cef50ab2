// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, along with the
// embedded goose migrations for the PostgreSQL schema.
//
// Connections are opened through the pgx stdlib driver ("pgx"). Progress
// updates rely on row-level locks (SELECT ... FOR UPDATE), so concurrent
// feedback on different items never blocks.
package postgres
