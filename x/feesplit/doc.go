/*
Package feesplit implements a token transfer that pays a fixed share of the
amount to a service account.

The fee is computed as floor(amount * fee), the receiver gets the rest. The
fee rate and the service account are set in the genesis configuration.
*/
package feesplit
