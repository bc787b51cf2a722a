// Package ledgertest provides mocks and helpers for testing ledger
// extensions.
package ledgertest
