/*
Package escrow implements a two party token swap.

The initializer locks an amount of one token in a vault and names the amount
of another token it wants in return. Any taker holding enough of the wanted
token can complete the swap: the taker pays the initializer and receives the
vault content in a single atomic step. Until that happens the initializer may
cancel the escrow and get the locked funds back.

The vault is a token account controlled by a program derived authority. That
authority has no private key. Only this package can produce the proof that
the authority approves a vault operation, by calling Authority.Sign.
*/
package escrow
