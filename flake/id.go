package flake

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// ID is a packed identifier: elapsed ticks, node and sequence from the most
// to the least significant bits.
type ID uint64

// Uint64 returns the raw value.
func (id ID) Uint64() uint64 { return uint64(id) }

// String returns the decimal representation.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Format names a textual encoding.
type Format string

// Supported textual encodings. Everything except Decimal delegates to the
// bwmarrin/snowflake alphabets and is defined for ids below 2^63.
const (
	Decimal Format = "decimal"
	Base2   Format = "base2"
	Base32  Format = "base32"
	Base36  Format = "base36"
	Base58  Format = "base58"
	Base64  Format = "base64"
)

func (id ID) compat() (snowflake.ID, error) {
	if uint64(id) > math.MaxInt64 {
		return 0, fmt.Errorf("flake: %d: %w", uint64(id), ErrIDOutOfRange)
	}
	return snowflake.ID(int64(id)), nil
}

// Encode renders id in the supplied format.
func (id ID) Encode(format Format) (string, error) {
	if format == Decimal || format == "" {
		return id.String(), nil
	}
	c, err := id.compat()
	if err != nil {
		return "", err
	}
	switch format {
	case Base2:
		return c.Base2(), nil
	case Base32:
		return c.Base32(), nil
	case Base36:
		return c.Base36(), nil
	case Base58:
		return c.Base58(), nil
	case Base64:
		return c.Base64(), nil
	}
	return "", fmt.Errorf("flake: unsupported format %q", format)
}

// Base58 returns the Base58 encoding. Ids at or above 2^63 have none and
// yield ""; callers that may hold such ids must check for it or use Encode.
func (id ID) Base58() string {
	s, _ := id.Encode(Base58)
	return s
}

// ParseID decodes text produced by Encode.
func ParseID(format Format, text string) (ID, error) {
	var (
		c   snowflake.ID
		err error
	)
	switch format {
	case Decimal, "":
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("flake: parse %q: %w", text, err)
		}
		return ID(v), nil
	case Base2:
		c, err = snowflake.ParseBase2(text)
	case Base32:
		c, err = snowflake.ParseBase32([]byte(text))
	case Base36:
		c, err = snowflake.ParseBase36(text)
	case Base58:
		c, err = snowflake.ParseBase58([]byte(text))
	case Base64:
		c, err = snowflake.ParseBase64(text)
	default:
		return 0, fmt.Errorf("flake: unsupported format %q", format)
	}
	if err != nil {
		return 0, fmt.Errorf("flake: parse %q as %s: %w", text, format, err)
	}
	if c < 0 {
		return 0, fmt.Errorf("flake: parse %q as %s: %w", text, format, ErrIDOutOfRange)
	}
	return ID(c.Int64()), nil
}
