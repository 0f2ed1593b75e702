// Package billing provides the domain model for dispensing medication
// against patient billings.
//
// A Billing consumes shelf stock through FIFO batch allocation: every
// billed line records exactly which goods-receipt batches it drew from
// and at what cost, so a later update or cancellation can reverse the
// consumption batch by batch.
//
// Key Aggregates:
//   - Billing: A patient invoice with its dispensed items and charges
//
// The billing domain integrates with:
//   - Inventory domain: As the consumer of batches and stock
//   - Catalog domain: For product reference data
package billing
