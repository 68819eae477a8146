package entangler

import "errors"

var (
	// ErrInvalidMintPair indicates the two mints are equal or either is not an initialized mint.
	ErrInvalidMintPair = errors.New("entangler: invalid mint pair")

	// ErrParentNotInitialized indicates the referenced parent registration does not exist or is not an entangler.
	ErrParentNotInitialized = errors.New("entangler: parent entangler not initialized")

	// ErrAddressAlreadyExists indicates a derived registration or vault address is occupied.
	ErrAddressAlreadyExists = errors.New("entangler: address already exists")

	// ErrDerivationExhausted indicates no bump produced an off-curve address.
	ErrDerivationExhausted = errors.New("entangler: address derivation exhausted")

	// ErrFundingFailure indicates the payer cannot cover the rent of the new accounts.
	ErrFundingFailure = errors.New("entangler: payer cannot fund account creation")

	// ErrInvalidSeed indicates the registration seed exceeds the derivation seed limit.
	ErrInvalidSeed = errors.New("entangler: invalid seed")

	// ErrInvalidAccountData indicates a registration account is malformed.
	ErrInvalidAccountData = errors.New("entangler: invalid account data")

	// ErrAccountDiscriminator indicates the account holds a different record type.
	ErrAccountDiscriminator = errors.New("entangler: account discriminator mismatch")

	// ErrNotFound indicates no registration exists at the address.
	ErrNotFound = errors.New("entangler: registration not found")
)
