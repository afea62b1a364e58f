// Package models defines the core domain models for Waterworks.
//
// # Models
//
//   - Customer: a metered water service account (the utility's "user")
//   - Bill: one billing cycle for a customer, derived from meter readings
//   - Staff: a console operator account (teller or meter reader)
//   - EditRecord: snapshot of customer fields kept when an account is edited
//
// # Design Principles
//
//  1. Models are plain data. All billing arithmetic lives in internal/billing.
//  2. Bill.Amount is a snapshot taken at creation time. It is never recomputed,
//     even if the rate table changes later.
//  3. Relationships use ID strings, never pointers, to avoid circular
//     references between customers and their bills.
package models
