package signing

import (
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"io"

	"filippo.io/edwards25519"
)

// Sizes of ExtendedEd25519 keys and signatures in bytes.
const (
	SeedSize            = 32
	SecretKeySize       = 64
	VerificationKeySize = 32
	SignatureSize       = 64
)

// SecretKey is an expanded ExtendedEd25519 secret kL || kR.
// kL is the scalar, clamped when expanded from a seed, and kR is the nonce key.
type SecretKey []byte

// VerificationKey is a compressed Edwards point.
type VerificationKey []byte

// KeyPair holds an ExtendedEd25519 key pair.
type KeyPair struct {
	SecretKey       SecretKey
	VerificationKey VerificationKey
}

// GenerateKeyPair reads a seed from rand and expands it into a key pair.
func GenerateKeyPair(rand io.Reader) (KeyPair, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return KeyPair{}, fmt.Errorf("signing: read seed: %w", err)
	}
	return KeyPairFromSeed(seed)
}

// KeyPairFromSeed expands a 32 byte seed into a key pair.
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != SeedSize {
		return KeyPair{}, fmt.Errorf("signing: seed must be %d bytes, got %d", SeedSize, len(seed))
	}

	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 31
	h[31] |= 64

	sk := SecretKey(h[:])
	vk, err := sk.VerificationKey()
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{SecretKey: sk, VerificationKey: vk}, nil
}

func (sk SecretKey) scalar() (*edwards25519.Scalar, error) {
	if len(sk) != SecretKeySize {
		return nil, fmt.Errorf("signing: secret key must be %d bytes, got %d", SecretKeySize, len(sk))
	}
	// kL is used as given. Keys derived outside KeyPairFromSeed need not be clamped.
	var wide [64]byte
	copy(wide[:], sk[:32])
	return edwards25519.NewScalar().SetUniformBytes(wide[:])
}

// VerificationKey returns kL * B.
func (sk SecretKey) VerificationKey() (VerificationKey, error) {
	kL, err := sk.scalar()
	if err != nil {
		return nil, err
	}
	return new(edwards25519.Point).ScalarBaseMult(kL).Bytes(), nil
}

// Sign signs msg deterministically with an expanded secret key.
func Sign(sk SecretKey, msg []byte) ([]byte, error) {
	kL, err := sk.scalar()
	if err != nil {
		return nil, err
	}
	A := new(edwards25519.Point).ScalarBaseMult(kL).Bytes()

	rh := sha512.New()
	rh.Write(sk[32:])
	rh.Write(msg)
	r, err := edwards25519.NewScalar().SetUniformBytes(rh.Sum(nil))
	if err != nil {
		return nil, err
	}
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	k, err := challenge(R, A, msg)
	if err != nil {
		return nil, err
	}
	S := edwards25519.NewScalar().MultiplyAdd(k, kL, r)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, R...)
	return append(sig, S.Bytes()...), nil
}

// Verify reports whether sig is a valid signature of msg under vk.
// It returns false for malformed keys and signatures.
func Verify(vk VerificationKey, sig, msg []byte) bool {
	if len(vk) != VerificationKeySize || len(sig) != SignatureSize {
		return false
	}

	A, err := new(edwards25519.Point).SetBytes(vk)
	if err != nil {
		return false
	}
	S, err := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}
	k, err := challenge(sig[:32], vk, msg)
	if err != nil {
		return false
	}

	minusA := new(edwards25519.Point).Negate(A)
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, S)
	return subtle.ConstantTimeCompare(sig[:32], R.Bytes()) == 1
}

func challenge(R, A, msg []byte) (*edwards25519.Scalar, error) {
	h := sha512.New()
	h.Write(R)
	h.Write(A)
	h.Write(msg)
	return edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
}
