package params

const (
	// SecBytes is the byte length of the symmetric keys this library is
	// designed around.
	SecBytes = 32

	// FieldBits is the bit length of the share field prime 2⁵²¹ − 1.
	FieldBits = 521

	// FieldBytes is the canonical fixed-width encoding of a field element.
	FieldBytes = (FieldBits + 7) / 8 // 66

	// MaxSecretBytes bounds the secrets that embed into a single field
	// element together with the one-byte length sentinel.
	MaxSecretBytes = FieldBytes - 2

	// MaxShares is the largest share count; indices must fit one byte and
	// index 0 is reserved for the secret itself.
	MaxShares = 255

	// MinThreshold is the smallest meaningful reconstruction threshold.
	MinThreshold = 2

	// MaxDifficulty bounds the puzzle iteration exponent so that
	// 2^difficulty fits a uint64 step counter.
	MaxDifficulty = 63

	// TagBytes is the length of puzzle seed verification tags.
	TagBytes = 32

	// PuzzleBits is the default bit length of a puzzle modulus.
	PuzzleBits = 1024
)
