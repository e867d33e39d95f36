package browse

import (
	"testing"

	"github.com/leanderhang/bitpunch/pkg/util/assert"
)

func TestStatusPretty(t *testing.T) {
	assert.Equal(t, "ok", Pretty(Ok))
	assert.Equal(t, "out of bounds", Pretty(OutOfBounds))
	assert.Equal(t, "not implemented", Pretty(NotImplemented))
}

func TestStatusStringMatchesPretty(t *testing.T) {
	assert.Equal(t, Pretty(DataError), DataError.String())
}

func TestStatusPrettyUnknownValue(t *testing.T) {
	assert.Equal(t, "unknown status", Pretty(Status(999)))
}
