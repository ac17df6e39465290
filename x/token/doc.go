/*
Package token implements a minimal fungible token ledger.

Every token account holds a single kind of token (its mint) and is controlled
by an owner. Only the owner may move funds out of an account, hand the account
over to another owner or close it. Accounts pay a storage deposit when opened.
The deposit is taken from the reserve of the paying identity and refunded when
the account is closed.
*/
package token
