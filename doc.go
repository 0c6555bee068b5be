// Package equitywise computes the Indian tax artifacts of equity
// compensation (RSU) held in a foreign brokerage account.
//
// The core functionalities include:
//   - Reference data: exchange rates and stock prices are resolved through a
//     Table, falling back to the nearest earlier observation within a bounded
//     window (7 days for rates, 15 for prices by default).
//   - Lot matching: vesting events become Lots in a Ledger, sales consume them
//     oldest first (FIFO), all or nothing.
//   - Capital gains: every matched allocation is valued in INR at the sale
//     date and classified short or long term on its holding period.
//   - Financial years: perquisite income and capital gains are totalled per
//     Indian financial year (April to March).
//   - Foreign Assets: the holdings of every calendar year are sampled to find
//     the opening, peak and closing INR balances, and the peak is tested
//     against the declaration threshold.
//   - Bank reconciliation: remittances of sale proceeds are checked against
//     the reference exchange rate.
//
// The Engine ties everything together. It works on in-memory records only:
// loading them is the job of package dataset, and rendering them the job of
// package renderer.
package equitywise
