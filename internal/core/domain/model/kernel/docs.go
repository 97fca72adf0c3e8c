// Package kernel provides the value objects shared by the order, quote and
// VAT models:
//   - UUID: identifiers for proposals, periods, expenses and evidence
//   - Money: naira amounts held at kobo precision with half-up rounding
//   - Role and Actor: who asks for a transition
package kernel
