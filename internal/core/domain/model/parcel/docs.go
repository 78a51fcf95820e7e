// Package parcel provides domain entities and business logic for parcel tracking
// in the cargo-forwarding system. It implements the Parcel aggregate root with its
// two timed status chains and the append-only history ledger.
//
// The package includes:
//   - Parcel: The aggregate root carrying status and the origin/local chain cursors
//   - Status: The parcel lifecycle enum with display labels
//   - HistoryEvent: An append-only, deduplicated status ledger entry
//
// Key business rules:
//   - Chain stages never regress; status only moves forward
//   - Received is terminal for all automatic advancement
//   - AtPickup is set exclusively by the second checkpoint scan and is not
//     overridden by the origin chain's terminal timer
//   - Ledger entries are deduplicated by (status, occurred-at, message fingerprint)
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package parcel
