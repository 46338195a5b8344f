// Package komorebi tracks a personal set of assets and values them in a
// single reporting currency. It is local-first: the holdings are a small
// collection saved as one blob after every change.
//
// The core functionalities include:
//   - Valuation: pure functions converting holdings of different
//     currencies and price bases into a net worth and a value-weighted
//     daily change (ConvertToReporting, HoldingValue, TotalNetWorth,
//     WeightedDailyChange, UnrealizedProfit, NewValuationReport).
//   - State: the application state and its transitions, State.Apply
//     takes an Event and returns the next State.
//   - Editing: the Editor workflow validating user input into events.
//   - Refresh: the Provider boundary to an external data source, and the
//     merge of its quotes and exchange rates into the holdings.
//   - Persistence: the Repository saving the holdings into a BlobStore.
//
// This package is the foundation of the `kmb` command-line tool.
package komorebi
