// Package machine manages registered device machines and their audit
// history.
//
// A machine is stored once per language (natural key id + lang_code). Every
// creation writes the machine row and then a history row carrying the same
// creation timestamp as its effect time:
//
//	┌──────────┐  Create   ┌─────────┐  InsertRecord   ┌────────────────┐
//	│  caller  │──────────▶│ Service │────────────────▶│ machine_master │
//	└──────────┘           │         │  InsertHistory  ├────────────────┤
//	                       │         │────────────────▶│machine_master_h│
//	                       └─────────┘                 └────────────────┘
//
// Retrieval returns only active rows (is_deleted false or unset) through
// one of three predicates. An empty result is a NotFound error, never an
// empty envelope.
//
// Three stores implement Store and HistoryStore: SQLiteRepository (default),
// BadgerRepository and MemoryRepository.
//
// # Thread Safety
//
// Service and all stores are safe for concurrent use once wired.
package machine
