/*
Package weave defines the interfaces used throughout tokenswap, such as
storage, transactions, handlers and decorators. It also contains the small
value types every extension shares: addresses, conditions and fractions.

Extensions live under x/ and never depend on each other's internals; they
communicate through the interfaces declared here.
*/
package weave
