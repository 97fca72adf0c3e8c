// Package quote holds QuoteProposal, the append-only price offers exchanged
// on a custom order. A proposal's terms and monetary fields are fixed at
// creation; only the final flag moves, and only when a proposal is accepted.
package quote
