package token

import "errors"

var (
	// ErrNotMint indicates the account is not owned by the token program or is not mint-sized.
	ErrNotMint = errors.New("token: account is not a mint")

	// ErrUninitializedMint indicates the mint exists but its initialized flag is clear.
	ErrUninitializedMint = errors.New("token: mint is not initialized")

	// ErrNotTokenAccount indicates the account is not a token account.
	ErrNotTokenAccount = errors.New("token: account is not a token account")

	// ErrMintMismatch indicates a token account holds a different mint.
	ErrMintMismatch = errors.New("token: token account mint mismatch")

	// ErrInvalidData indicates a mint or token account layout is malformed.
	ErrInvalidData = errors.New("token: invalid account data")
)
