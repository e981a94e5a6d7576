// Package dataprocessing turns the raw page text of an ATHEX daily report
// into typed block-trade records.
//
// The stages mirror the report's structure:
//
//   - ExtractReportDate finds the Greek long-form date in the page header
//     ("Τρίτη, 26 Αυγούστου, 2025") and resolves it to a calendar date.
//   - ParsePageTable locates the block-trade table on one page and parses
//     its rows (company, volume, price, value, approval time, note id).
//   - ExtractBlockTrades unions the rows of every page carrying the table
//     and stamps them with the report date.
//   - GroupTrades buckets records per normalized company for the ledger
//     writer, preserving encounter order.
//
// Parsing is deliberately lenient: noise lines, continuation lines and rows
// with unparseable numbers are skipped, never guessed at. Every skip is
// counted in ParseStats and logged so data loss stays visible.
package dataprocessing
