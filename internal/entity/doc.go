// Package entity defines the record types owned by the entity store:
// tables, reservations, orders, customers, and staff, plus the committed
// event vocabulary and the policy constants governing admission.
//
// Records are plain values. Components outside the store hold identifiers
// only and re-resolve records through the store on every operation;
// nothing caches a record across an operation boundary.
package entity
