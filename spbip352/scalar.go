package spbip352

import "github.com/btcsuite/btcd/btcec/v2"

// addScalar returns priv + tweak (mod n) as a new private key.
func addScalar(priv *btcec.PrivateKey, tweak *[32]byte) *btcec.PrivateKey {
	var tweakScalar btcec.ModNScalar
	tweakScalar.SetBytes(tweak)

	sum := new(btcec.ModNScalar).Set(&priv.Key).Add(&tweakScalar)
	return btcec.PrivKeyFromBytes(sum.Bytes()[:])
}

// negateIfOddY returns priv negated (n - d) if its public key has an
// odd y-coordinate, otherwise priv unchanged. This is the BIP-340
// even-Y normalization rule applied before summing input private keys.
func negateIfOddY(priv *btcec.PrivateKey) *btcec.PrivateKey {
	if priv.PubKey().Y().Bit(0) == 1 {
		negated := new(btcec.ModNScalar).Set(&priv.Key).Negate()
		return btcec.PrivKeyFromBytes(negated.Bytes()[:])
	}
	return priv
}

// sumPrivKeys sums a slice of private keys (mod n), normalizing each
// for even-Y first.
func sumPrivKeys(privs []*btcec.PrivateKey) *btcec.PrivateKey {
	sum := new(btcec.ModNScalar)
	for _, p := range privs {
		normalized := negateIfOddY(p)
		sum = sum.Add(&normalized.Key)
	}
	return btcec.PrivKeyFromBytes(sum.Bytes()[:])
}

// scalarMultPoint computes scalar*point, returned as an affine public
// key.
func scalarMultPoint(scalar *btcec.PrivateKey, point *btcec.PublicKey) *btcec.PublicKey {
	var pointJacobian btcec.JacobianPoint
	point.AsJacobian(&pointJacobian)

	var result btcec.JacobianPoint
	btcec.ScalarMultNonConst(&scalar.Key, &pointJacobian, &result)
	result.ToAffine()

	return btcec.NewPublicKey(&result.X, &result.Y)
}

// addPoint computes a*G + point, returned as an affine public key.
func addPointTimesGenerator(point *btcec.PublicKey, scalar *[32]byte) *btcec.PublicKey {
	var tweakScalar btcec.ModNScalar
	tweakScalar.SetBytes(scalar)

	var tweaked btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&tweakScalar, &tweaked)

	var pointJacobian btcec.JacobianPoint
	point.AsJacobian(&pointJacobian)

	var result btcec.JacobianPoint
	btcec.AddNonConst(&pointJacobian, &tweaked, &result)
	result.ToAffine()

	return btcec.NewPublicKey(&result.X, &result.Y)
}
