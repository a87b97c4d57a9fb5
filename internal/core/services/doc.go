// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The centre of the package is Session, the paging state machine behind every
// result list. Router, QueryEditor and Present sit between a user interface
// and a session; they hold no I/O of their own.
//
// Services are pure Go with no CGO and no network access of their own.
package services
