// Package reporting holds the pure reductions behind the stock views, the
// finance balances and the statistics dashboard. Every function works on
// already-fetched wire records, so the same code serves the API and the
// client. Grouping keeps the order in which keys are first seen.
package reporting
