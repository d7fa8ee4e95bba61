// Package lpdrpc controls individual payment-channel daemons through lpcli.
//
// Every client is bound to one node's data directory; lpcli finds the
// daemon's control socket and configuration there. The calls exposed here
// are stateless request/response commands:
//
//   - Ping: liveness probe, exit-success means the daemon accepts commands.
//   - FundPsbt: populate a funding transaction from an explicit UTXO set.
//     The caller supplies a target amount, a fee rate, the starting
//     transaction weight and the txid:vout references to spend; the daemon
//     returns the partially-signed transaction, the effective fee rate, an
//     estimated final weight and any excess amount. Inputs may optionally be
//     reserved, and already-reserved inputs may be admitted explicitly.
//
// FundPsbt failures carry a numeric code: invalid parameters, a generic
// failure, or insufficient funds (dedicated code, surfaced as
// ErrInsufficientFunds). The harness core never calls FundPsbt itself; it is
// documented and bound here for interactive use against a provisioned node.
package lpdrpc
