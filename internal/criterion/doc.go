// Package criterion validates sender search input and turns it into Gmail
// search predicates.
//
// A criterion is interpreted, in order, as an email address, a bare domain,
// or a company name. Company names expand into an OR disjunction over common
// domain suffixes; that expansion is a heuristic and lives only here.
package criterion
