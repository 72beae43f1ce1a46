// Package giftpurchase implements paid voting inside the contest-core
// context.
//
// A purchase is staged outside the durable store while the payment provider
// processes it: initiation creates the charge and writes a TTL-bounded
// pending record keyed by the trade number; the provider's asynchronous
// notification is verified, matched against that record, and committed into
// the vote ledger exactly once. The module also owns the gift catalog and an
// optional sweeper that rescues stages whose notification never arrived.
package giftpurchase
