// Package vat models monthly VAT periods.
//
// A period is keyed by (month, year) and covers the half-open window
// [22nd of the previous month 00:00, 22nd of the month 00:00) in the
// accounting time zone, so the 21st is the last day of every period.
//
// Output VAT is the VAT of orders completed inside the window; input VAT is
// the VAT of deductible expenses incurred inside it. The payable amount is
// never negative; the signed difference is kept for audit.
package vat
