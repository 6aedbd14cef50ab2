// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Implementations live in internal/platform/postgres and
// internal/platform/sqlite. Every store exposes WithTx so that services can
// run several operations inside one transaction started by a TxRunner.
package store
