// Package rebalance computes the trades needed to move a multi-account
// investment portfolio toward a set of target allocation percentages.
//
// The engine works under two hard constraints: no money ever enters or
// leaves the portfolio as a whole, and no value moves between accounts
// (accounts usually have different tax treatments, so a cross-account
// transfer would be a taxable event the user never asked for).
//
// The core functionalities include:
//   - Domain Model: Symbols (with target percentages), Accounts and
//     Holdings, derived from imported data with exact decimal arithmetic.
//   - Allocation Strategies: two policies that turn percentage targets
//     into per-account dollar allocations. Consolidate concentrates each
//     symbol into as few accounts as possible; MinimizeTrades nudges
//     existing positions by the smallest amount needed.
//   - Whole-Share Conversion: a largest-remainder apportionment that turns
//     dollar allocations into integer share counts, followed by a repair
//     pass that walks back any per-account budget violation the rounding
//     introduced.
//   - Trade Generation: the buy/sell list obtained by diffing current
//     share counts against the converted targets.
//
// This package serves as the foundational logic for the `rebal`
// command-line tool; parsing, rendering and the assistant live in their
// own packages and consume the engine through plain data structures.
package rebalance
