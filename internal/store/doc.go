// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from the
// cascade and notification logic, allowing business rules to remain
// independent of specific database technologies. Every interface exposes a
// WithTx variant so a whole cascade can run inside one transaction.
package store
