// Package votingengine implements the contest vote ledger inside the
// contest-core context.
//
// The module owns the only write path into candidate tallies: a transactional
// commit primitive that inserts an immutable vote event and increments the
// candidate's running total as one unit. Free-vote casting, the per-candidate
// event feed, and contributor ranking live here; paid votes arrive through the
// gift-purchase module, which commits through the same primitive.
package votingengine
